package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

// ContentItem is a purchasable unit of audio content. Items are immutable and come
// from the static catalog.
type ContentItem struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Thumbnail  string `json:"thumbnail" yaml:"thumbnail"`
	MediaURL   string `json:"mediaUrl" yaml:"mediaUrl"`
	// PriceCents is the single-item price. Zero means the list price applies.
	PriceCents int64  `json:"priceCents,omitempty" yaml:"priceCents"`
}

// SingleItemChapterID tags purchases of one item bought outside a chapter.
const SingleItemChapterID = "single"

// Price returns the item's own price, or listCents when it has none.
func (c ContentItem) Price(listCents int64) int64 {
	if c.PriceCents > 0 {
		return c.PriceCents
	}
	return listCents
}

func dollarsToCents(d float64) int64 {
	if d <= 0 {
		return 0
	}
	return int64(math.Round(d * 100))
}

// Key is the identity used for bundle membership.
func (c ContentItem) Key() string {
	if id := strings.TrimSpace(c.ID); id != "" {
		return id
	}
	return DeriveItemID(c.Title, c.MediaURL)
}

// DeriveItemID builds a stable id for catalog entries that do not carry one.
func DeriveItemID(title, mediaURL string) string {
	base := slug.Make(title)
	if base == "" {
		base = "item"
	}
	if mediaURL == "" {
		return base
	}
	return base + "-" + slug.Make(lastPathSegment(mediaURL))
}

func lastPathSegment(u string) string {
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndexAny(u, "/=?"); i >= 0 {
		return u[i+1:]
	}
	return u
}

// UnmarshalJSON also accepts the legacy "youtubeUrl" field name and a dollar
// "price".
func (c *ContentItem) UnmarshalJSON(b []byte) error {
	type plain ContentItem
	var aux struct {
		plain
		YoutubeURL string  `json:"youtubeUrl"`
		Price      float64 `json:"price"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*c = ContentItem(aux.plain)
	if c.MediaURL == "" {
		c.MediaURL = aux.YoutubeURL
	}
	if c.PriceCents == 0 {
		c.PriceCents = dollarsToCents(aux.Price)
	}
	return nil
}

func (c *ContentItem) UnmarshalYAML(node *yaml.Node) error {
	type plain ContentItem
	var aux struct {
		plain      `yaml:",inline"`
		YoutubeURL string  `yaml:"youtubeUrl"`
		Price      float64 `yaml:"price"`
	}
	if err := node.Decode(&aux); err != nil {
		return err
	}
	*c = ContentItem(aux.plain)
	if c.MediaURL == "" {
		c.MediaURL = aux.YoutubeURL
	}
	if c.PriceCents == 0 {
		c.PriceCents = dollarsToCents(aux.Price)
	}
	return nil
}

type Question struct {
	ID    string        `json:"id" yaml:"id"`
	Text  string        `json:"text" yaml:"text"`
	Items []ContentItem `json:"audioFile" yaml:"audioFile"`
}

type Chapter struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Difficulty  string     `json:"difficulty,omitempty" yaml:"difficulty"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

func (c Chapter) QuestionCount() int { return len(c.Questions) }

// Quote is an inspirational image shown between questions.
type Quote struct {
	ID       string `json:"id" yaml:"id"`
	ImageSrc string `json:"imgSrc" yaml:"imgSrc"`
	Text     string `json:"text,omitempty" yaml:"text"`
	Author   string `json:"author,omitempty" yaml:"author"`
}

// UnmarshalJSON accepts numeric ids, which older quote files use.
func (q *Quote) UnmarshalJSON(b []byte) error {
	var aux struct {
		ID       json.RawMessage `json:"id"`
		ImageSrc string          `json:"imgSrc"`
		Text     string          `json:"text"`
		Author   string          `json:"author"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	id := strings.TrimSpace(string(aux.ID))
	if unq, err := strconv.Unquote(id); err == nil {
		id = unq
	}
	if id == "null" {
		id = ""
	}
	*q = Quote{ID: id, ImageSrc: aux.ImageSrc, Text: aux.Text, Author: aux.Author}
	return nil
}
