package billing

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Plan describes a purchasable subscription tier.
type Plan struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PriceCents    int    `json:"price_cents"`
	Currency      string `json:"currency"`
	BillingPeriod string `json:"billing_period"`
	TrialDays     int    `json:"trial_days"`
	StripePriceID string `json:"stripe_price_id"`
	MaxProducts   int    `json:"max_products"`
	MaxMembers    int    `json:"max_members"`
}

type plansFile struct {
	Plans []Plan `json:"plans"`
}

// Catalog holds the plan definitions loaded at startup.
type Catalog struct {
	mu    sync.RWMutex
	plans map[string]*Plan
	order []string
}

func NewCatalog() *Catalog {
	return &Catalog{
		plans: make(map[string]*Plan),
	}
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plans config: %w", err)
	}

	var file plansFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plans config: %w", err)
	}

	catalog := NewCatalog()
	for i := range file.Plans {
		catalog.Register(&file.Plans[i])
	}
	return catalog, nil
}

func (c *Catalog) Register(plan *Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.plans[plan.ID]; !ok {
		c.order = append(c.order, plan.ID)
	}
	c.plans[plan.ID] = plan
}

func (c *Catalog) Get(planID string) *Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.plans[planID]
}

func (c *Catalog) Exists(planID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.plans[planID]
	return ok
}

// All returns the plans in file order.
func (c *Catalog) All() []*Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*Plan, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.plans[id])
	}
	return result
}
