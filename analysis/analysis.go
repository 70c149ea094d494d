// Package analysis guesses a skin type from a photo and looks up advice for
// it.
package analysis

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"gopkg.in/yaml.v3"
)

type SkinType string

const (
	Oily        SkinType = "oily"
	Dry         SkinType = "dry"
	Normal      SkinType = "normal"
	Combination SkinType = "combination"
)

var SkinTypes = []SkinType{Oily, Dry, Normal, Combination}

var ErrNoImage = errors.New("analysis: no image provided")

// Classifier decides the skin type shown in an image.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (SkinType, error)
}

// NewRandom returns a classifier that ignores the image and picks one of
// SkinTypes uniformly. A nil source uses the global generator.
func NewRandom(src rand.Source) *Random {
	r := &Random{}
	if src != nil {
		r.rng = rand.New(src)
	}
	return r
}

type Random struct {
	m   sync.Mutex
	rng *rand.Rand
}

func (r *Random) Classify(ctx context.Context, image []byte) (SkinType, error) {
	if len(image) == 0 {
		return "", ErrNoImage
	}
	if r.rng == nil {
		return SkinTypes[rand.IntN(len(SkinTypes))], nil
	}
	r.m.Lock()
	defer r.m.Unlock()
	return SkinTypes[r.rng.IntN(len(SkinTypes))], nil
}

type Advice struct {
	Issues   []string `yaml:"issues"`
	Remedies []string `yaml:"remedies"`
	Products []string `yaml:"products"`
}

type Catalog map[SkinType]Advice

//go:embed catalog.yaml
var catalogYAML []byte

// DefaultCatalog returns the built-in advice for each skin type.
func DefaultCatalog() (Catalog, error) {
	return LoadCatalog(catalogYAML)
}

// LoadCatalog parses a YAML catalog and checks it covers every skin type.
func LoadCatalog(data []byte) (c Catalog, err error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("analysis: failed to parse catalog: %w", err)
	}
	for _, st := range SkinTypes {
		if _, ok := c[st]; !ok {
			return nil, fmt.Errorf("analysis: catalog is missing skin type %q", st)
		}
	}
	return c, nil
}
