package domain

import (
	"encoding/json"
	"math/big"
	"sync/atomic"
)

const defaultPricingDescription = "Default pricing"

// PriceCalculator computes the charge for a request.
type PriceCalculator interface {
	CalculatePrice(input PricingInput, endpoint, category string) PriceCalculationResult
}

// PricingEngine prices requests against the active policy. The policy is
// replaced as a whole; readers always see one complete policy.
type PricingEngine struct {
	policy atomic.Pointer[PricingPolicy]
}

// NewPricingEngine creates a pricing engine (DI constructor).
func NewPricingEngine(policy *PricingPolicy) *PricingEngine {
	engine := &PricingEngine{policy: atomic.Pointer[PricingPolicy]{}}
	engine.UpdatePolicy(policy)
	return engine
}

// CalculatePrice resolves the price with precedence endpoint > category > default.
func (e *PricingEngine) CalculatePrice(input PricingInput, endpoint, category string) PriceCalculationResult {
	policy := e.policy.Load()

	if endpoint != "" {
		if pricing, ok := policy.Endpoints[endpoint]; ok {
			return calculateEndpointPrice(pricing, input, endpoint)
		}
	}

	if category != "" {
		if pricing, ok := policy.Categories[category]; ok {
			return PriceCalculationResult{
				Price: pricing.BasePrice,
				Breakdown: PriceBreakdown{
					Source:      CategorySource(category),
					BasePrice:   pricing.BasePrice,
					Description: pricing.Description,
					Multipliers: nil,
					Additions:   nil,
				},
			}
		}
	}

	return PriceCalculationResult{
		Price: policy.DefaultPrice,
		Breakdown: PriceBreakdown{
			Source:      SourceDefault,
			BasePrice:   policy.DefaultPrice,
			Description: defaultPricingDescription,
			Multipliers: nil,
			Additions:   nil,
		},
	}
}

// Policy returns a copy of the active policy.
func (e *PricingEngine) Policy() *PricingPolicy {
	return e.policy.Load().Clone()
}

// EndpointPricing returns the pricing entry for an endpoint key.
func (e *PricingEngine) EndpointPricing(endpoint string) (EndpointPricing, bool) {
	pricing, ok := e.policy.Load().Endpoints[endpoint]
	return pricing, ok
}

// UpdatePolicy atomically replaces the active policy. A nil policy resets to an empty one.
func (e *PricingEngine) UpdatePolicy(policy *PricingPolicy) {
	if policy == nil {
		policy = &PricingPolicy{DefaultPrice: "0", Endpoints: nil, Categories: nil}
	}
	e.policy.Store(policy.Clone())
}

func calculateEndpointPrice(pricing EndpointPricing, input PricingInput, endpoint string) PriceCalculationResult {
	price, ok := parseAmount(pricing.BasePrice)
	if !ok {
		price = new(big.Int)
	}

	multipliers := map[string]json.Number{}
	for _, param := range sortedKeys(pricing.ParameterMultipliers) {
		if !pricing.ParameterMultipliers[param] {
			continue
		}
		value, present := input[param]
		if !present {
			continue
		}
		factor, ok := value.Numeric()
		if !ok || !factor.IsPositive() || !factor.IsInteger() {
			continue
		}
		price.Mul(price, factor.BigInt())
		multipliers[param] = json.Number(factor.String())
	}

	additions := map[string]string{}
	for _, param := range sortedKeys(pricing.ParameterAdditions) {
		value, present := input[param]
		if !present || !value.Truthy() {
			continue
		}
		amount, ok := parseAmount(pricing.ParameterAdditions[param])
		if !ok {
			continue
		}
		price.Add(price, amount)
		additions[param] = pricing.ParameterAdditions[param]
	}

	breakdown := PriceBreakdown{
		Source:      EndpointSource(endpoint),
		BasePrice:   pricing.BasePrice,
		Description: pricing.Description,
		Multipliers: nil,
		Additions:   nil,
	}
	if len(multipliers) > 0 {
		breakdown.Multipliers = multipliers
	}
	if len(additions) > 0 {
		breakdown.Additions = additions
	}

	return PriceCalculationResult{Price: price.String(), Breakdown: breakdown}
}
