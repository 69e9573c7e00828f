package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	c := NoopCanvasHooks{}
	c.OnTileAdded(ctx, "t1", "https://example.com/a.png")
	c.OnTileAddFailed(ctx, errors.New("empty"))
	c.OnTileRemoved(ctx, "t1")
	c.OnGestureStart(ctx, GestureResize, "t1")
	c.OnGestureEnd(ctx, GestureResize, "t1", time.Second, true)

	k := NoopCacheHooks{}
	k.OnCacheHit(ctx, "images")
	k.OnCacheMiss(ctx, "images")
	k.OnCacheSet(ctx, "images", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "jsonplaceholder.typicode.com", "/photos")
	h.OnResponse(ctx, "GET", "jsonplaceholder.typicode.com", "/photos", 200, time.Second)
	h.OnError(ctx, "GET", "jsonplaceholder.typicode.com", "/photos", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Canvas().(NoopCanvasHooks); !ok {
		t.Error("Canvas() should return NoopCanvasHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customCanvas := &testCanvasHooks{}
	SetCanvasHooks(customCanvas)
	if Canvas() != customCanvas {
		t.Error("SetCanvasHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Canvas().(NoopCanvasHooks); !ok {
		t.Error("Reset() should restore NoopCanvasHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testCanvasHooks{}
	SetCanvasHooks(custom)
	SetCanvasHooks(nil)

	if Canvas() != custom {
		t.Error("SetCanvasHooks(nil) should be ignored")
	}
}

type testCanvasHooks struct{ NoopCanvasHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
