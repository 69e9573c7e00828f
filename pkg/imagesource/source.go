package imagesource

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/tileboard/pkg/errors"
)

// Source lists image URLs.
type Source interface {
	Images(ctx context.Context) ([]string, error)
}

// Static is a Source backed by a fixed list.
type Static []string

// Images returns a copy of the list.
func (s Static) Images(context.Context) ([]string, error) {
	return slices.Clone([]string(s)), nil
}

// Pick fetches the list from src and returns one entry chosen uniformly.
// A nil rng uses the global generator.
func Pick(ctx context.Context, src Source, rng *rand.Rand) (string, error) {
	if src == nil {
		return "", errors.New(errors.ErrCodeImageSourceUnavailable, "no image source configured")
	}
	urls, err := src.Images(ctx)
	if err != nil {
		if errors.GetCode(err) == errors.ErrCodeImageSourceEmpty {
			return "", err
		}
		return "", errors.Wrap(errors.ErrCodeImageSourceUnavailable, err, "fetch image list")
	}
	if len(urls) == 0 {
		return "", errors.New(errors.ErrCodeImageSourceEmpty, "image source returned no images")
	}

	var i int
	if rng != nil {
		i = rng.IntN(len(urls))
	} else {
		i = rand.IntN(len(urls))
	}
	return urls[i], nil
}
