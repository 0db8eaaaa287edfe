package domain

// ProgressMap maps a chapter id to the index of the next unanswered question.
// A cursor equal to the chapter's question count marks the chapter complete.
type ProgressMap map[string]int

// Clone returns a copy that can be mutated without touching the receiver.
func (p ProgressMap) Clone() ProgressMap {
	out := make(ProgressMap, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// With returns a copy of p with chapterID set to cursor.
func (p ProgressMap) With(chapterID string, cursor int) ProgressMap {
	out := p.Clone()
	out[chapterID] = cursor
	return out
}

type Settings struct {
	SoundEnabled bool   `json:"soundEnabled"`
	PrimaryColor string `json:"primaryColor"`
}

func DefaultSettings() Settings {
	return Settings{SoundEnabled: true, PrimaryColor: "blue"}
}

// Pricing is the fixed bundle price together with the per-item list price used to
// show the bundle discount.
type Pricing struct {
	BundleCents   int64  `json:"bundleCents"`
	ItemListCents int64  `json:"itemListCents"`
	Currency      string `json:"currency"`
}

func DefaultPricing() Pricing {
	return Pricing{BundleCents: 8500, ItemListCents: 2500, Currency: "USD"}
}

type PriceQuote struct {
	Items        int    `json:"items"`
	ListCents    int64  `json:"listCents"`
	BundleCents  int64  `json:"bundleCents"`
	SavingsCents int64  `json:"savingsCents"`
	Currency     string `json:"currency"`
}

func (p Pricing) Quote(items int) PriceQuote {
	list := int64(items) * p.ItemListCents
	savings := list - p.BundleCents
	if savings < 0 {
		savings = 0
	}
	return PriceQuote{
		Items:        items,
		ListCents:    list,
		BundleCents:  p.BundleCents,
		SavingsCents: savings,
		Currency:     p.Currency,
	}
}

// Receipt is what the checkout collaborator hands back for a bundle purchase.
type Receipt struct {
	PurchaseID   string `json:"purchaseId"`
	ChapterID    string `json:"chapterId,omitempty"`
	Provider     string `json:"provider"`
	ProviderRef  string `json:"providerRef,omitempty"`
	Status       string `json:"status"`
	AmountCents  int64  `json:"amountCents"`
	Currency     string `json:"currency"`
	ApproveURL   string `json:"approveUrl,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
)

// Order is a bundle purchase request handed to checkout.
type Order struct {
	UserID      string        `json:"userId"`
	ChapterID   string        `json:"chapterId"`
	Items       []ContentItem `json:"items"`
	AmountCents int64         `json:"amountCents"`
	Currency    string        `json:"currency"`
}
