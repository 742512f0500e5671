package export

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cardbinder/cardbinder/pkg/catalog"
)

// ManifestRenderer renders a snapshot as a JSON manifest of the collection.
// It stands in for the managed export job that produces real PDF/image
// artifacts; downstream code treats the bytes as opaque either way.
type ManifestRenderer struct{}

// manifest is the serialized artifact payload.
type manifest struct {
	GeneratedAt string         `json:"generatedAt"`
	Format      Format         `json:"format"`
	CardCount   int            `json:"cardCount"`
	Cards       []manifestCard `json:"cards"`
}

type manifestCard struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Number  string `json:"number,omitempty"`
	SetID   string `json:"setId,omitempty"`
	SetName string `json:"setName,omitempty"`
	Image   string `json:"image,omitempty"`
}

// Render implements Renderer.
func (ManifestRenderer) Render(_ context.Context, format Format, cards []catalog.Card) ([]byte, error) {
	m := manifest{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Format:      format,
		CardCount:   len(cards),
		Cards:       make([]manifestCard, 0, len(cards)),
	}
	for i := range cards {
		c := &cards[i]
		m.Cards = append(m.Cards, manifestCard{
			ID:      c.ID,
			Name:    c.Name,
			Number:  c.Number,
			SetID:   c.SetID,
			SetName: c.SetName,
			Image:   c.Image,
		})
	}
	return json.MarshalIndent(m, "", "  ")
}
