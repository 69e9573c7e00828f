package imagesource

import (
	"context"
	stderrors "errors"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/tileboard/pkg/errors"
)

type failingSource struct{ err error }

func (f failingSource) Images(context.Context) ([]string, error) { return nil, f.err }

func TestStaticImagesReturnsCopy(t *testing.T) {
	s := Static{"a.png", "b.png"}
	got, err := s.Images(context.Background())
	if err != nil {
		t.Fatalf("Images() error: %v", err)
	}
	got[0] = "mutated"
	if s[0] != "a.png" {
		t.Error("Images() should return a copy")
	}
}

func TestPick(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		src      Source
		wantCode errors.Code
	}{
		{"nil source", nil, errors.ErrCodeImageSourceUnavailable},
		{"empty list", Static{}, errors.ErrCodeImageSourceEmpty},
		{"fetch failure", failingSource{stderrors.New("boom")}, errors.ErrCodeImageSourceUnavailable},
		{"empty passthrough", failingSource{errors.New(errors.ErrCodeImageSourceEmpty, "none")}, errors.ErrCodeImageSourceEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := Pick(ctx, tt.src, nil)
			if err == nil {
				t.Fatalf("Pick() = %q, want error", url)
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("GetCode() = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestPickUniform(t *testing.T) {
	src := Static{"a", "b", "c", "d"}
	rng := rand.New(rand.NewPCG(1, 2))

	counts := map[string]int{}
	const n = 4000
	for range n {
		url, err := Pick(context.Background(), src, rng)
		if err != nil {
			t.Fatalf("Pick() error: %v", err)
		}
		counts[url]++
	}
	for _, u := range src {
		if c := counts[u]; c < n/4-200 || c > n/4+200 {
			t.Errorf("%s picked %d times, want about %d", u, c, n/4)
		}
	}
}

func TestPickDeterministic(t *testing.T) {
	src := Static{"a", "b", "c"}
	first, _ := Pick(context.Background(), src, rand.New(rand.NewPCG(7, 7)))
	second, _ := Pick(context.Background(), src, rand.New(rand.NewPCG(7, 7)))
	if first != second {
		t.Errorf("same seed gave %q and %q", first, second)
	}
}
