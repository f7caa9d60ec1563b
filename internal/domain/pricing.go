package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/shopspring/decimal"
)

// AtomicUnitsPerUSDC is the number of atomic units in one USDC.
const AtomicUnitsPerUSDC = 1_000_000

const usdcDecimals = 6

// Pricing breakdown sources.
const (
	SourceDefault        = "default"
	sourceEndpointPrefix = "endpoint:"
	sourceCategoryPrefix = "category:"
)

// PricingPolicy is the declarative price table. All amounts are atomic units
// encoded as decimal strings.
type PricingPolicy struct {
	DefaultPrice string                     `json:"defaultPrice"         yaml:"defaultPrice"`
	Endpoints    map[string]EndpointPricing `json:"endpoints,omitempty"  yaml:"endpoints"`
	Categories   map[string]CategoryPricing `json:"categories,omitempty" yaml:"categories"`
}

// EndpointPricing prices a single endpoint (model) with optional parameter adjustments.
type EndpointPricing struct {
	BasePrice   string `json:"basePrice"             yaml:"basePrice"`
	Description string `json:"description,omitempty" yaml:"description"`

	// ParameterMultipliers multiplies the base price by the named request parameter when enabled.
	ParameterMultipliers map[string]bool `json:"parameterMultipliers,omitempty" yaml:"parameterMultipliers"`

	// ParameterAdditions adds a fixed amount when the named request parameter is truthy.
	ParameterAdditions map[string]string `json:"parameterAdditions,omitempty" yaml:"parameterAdditions"`
}

// CategoryPricing is a flat price shared by a group of endpoints.
type CategoryPricing struct {
	BasePrice   string `json:"basePrice"             yaml:"basePrice"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// PriceCalculationResult is the output of a price calculation.
type PriceCalculationResult struct {
	Price     string         `json:"price"`
	Breakdown PriceBreakdown `json:"breakdown"`
}

// PriceBreakdown explains how a price was derived.
type PriceBreakdown struct {
	Source      string                 `json:"source"`
	BasePrice   string                 `json:"basePrice"`
	Description string                 `json:"description,omitempty"`
	Multipliers map[string]json.Number `json:"multipliers,omitempty"`
	Additions   map[string]string      `json:"additions,omitempty"`
}

// EndpointSource returns the breakdown source for an endpoint key.
func EndpointSource(endpoint string) string {
	return sourceEndpointPrefix + endpoint
}

// CategorySource returns the breakdown source for a category name.
func CategorySource(category string) string {
	return sourceCategoryPrefix + category
}

// Validate checks that every amount in the policy is a non-negative integer.
func (p *PricingPolicy) Validate() error {
	if p == nil {
		return errors.New("policy cannot be nil")
	}

	var errs []error
	if err := validateAmount("defaultPrice", p.DefaultPrice); err != nil {
		errs = append(errs, err)
	}

	for _, key := range sortedKeys(p.Endpoints) {
		if key == "" {
			errs = append(errs, errors.New("endpoint key cannot be empty"))
			continue
		}
		pricing := p.Endpoints[key]
		if err := validateAmount(fmt.Sprintf("endpoints[%s].basePrice", key), pricing.BasePrice); err != nil {
			errs = append(errs, err)
		}
		for _, param := range sortedKeys(pricing.ParameterAdditions) {
			field := fmt.Sprintf("endpoints[%s].parameterAdditions[%s]", key, param)
			if err := validateAmount(field, pricing.ParameterAdditions[param]); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for _, key := range sortedKeys(p.Categories) {
		if key == "" {
			errs = append(errs, errors.New("category key cannot be empty"))
			continue
		}
		field := fmt.Sprintf("categories[%s].basePrice", key)
		if err := validateAmount(field, p.Categories[key].BasePrice); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Clone returns a deep copy of the policy. Nil maps become empty maps.
func (p *PricingPolicy) Clone() *PricingPolicy {
	if p == nil {
		return nil
	}

	out := &PricingPolicy{
		DefaultPrice: p.DefaultPrice,
		Endpoints:    make(map[string]EndpointPricing, len(p.Endpoints)),
		Categories:   make(map[string]CategoryPricing, len(p.Categories)),
	}

	for key, pricing := range p.Endpoints {
		cloned := pricing
		if pricing.ParameterMultipliers != nil {
			cloned.ParameterMultipliers = make(map[string]bool, len(pricing.ParameterMultipliers))
			for param, enabled := range pricing.ParameterMultipliers {
				cloned.ParameterMultipliers[param] = enabled
			}
		}
		if pricing.ParameterAdditions != nil {
			cloned.ParameterAdditions = make(map[string]string, len(pricing.ParameterAdditions))
			for param, amount := range pricing.ParameterAdditions {
				cloned.ParameterAdditions[param] = amount
			}
		}
		out.Endpoints[key] = cloned
	}

	for key, pricing := range p.Categories {
		out.Categories[key] = pricing
	}

	return out
}

// FormatUSD renders an atomic-unit amount as a dollar string with six decimals, e.g. "$0.010000".
func FormatUSD(atomic string) string {
	amount, err := decimal.NewFromString(atomic)
	if err != nil {
		amount = decimal.Zero
	}
	return "$" + amount.Shift(-usdcDecimals).StringFixed(usdcDecimals)
}

func validateAmount(field, value string) error {
	amount, ok := parseAmount(value)
	if !ok {
		return fmt.Errorf("%s: %q is not an integer amount", field, value)
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("%s: %q must not be negative", field, value)
	}
	return nil
}

func parseAmount(value string) (*big.Int, bool) {
	return new(big.Int).SetString(value, 10)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
