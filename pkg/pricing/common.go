package pricing

import (
	"fmt"
	"strconv"

	"github.com/younsl/ec2tags/pkg/utils"
)

// ExtractOnDemandPrice extracts the hourly USD on-demand price from a Pricing API product document
func ExtractOnDemandPrice(priceJSON string) (float64, error) {
	priceData, err := utils.ParseJSON(priceJSON)
	if err != nil {
		return 0, fmt.Errorf("error parsing pricing data: %w", err)
	}

	onDemand, err := utils.GetNestedMap(priceData, "terms", "OnDemand")
	if err != nil {
		return 0, err
	}

	// OnDemand -> <sku offer> -> priceDimensions -> <rate code> -> pricePerUnit
	skuOffer, err := utils.GetFirstMapValue(onDemand)
	if err != nil {
		return 0, fmt.Errorf("no SKU offer found: %w", err)
	}

	priceDimensions, err := utils.GetNestedMap(skuOffer, "priceDimensions")
	if err != nil {
		return 0, err
	}

	dimension, err := utils.GetFirstMapValue(priceDimensions)
	if err != nil {
		return 0, fmt.Errorf("no price dimension found: %w", err)
	}

	pricePerUnit, err := utils.GetNestedMap(dimension, "pricePerUnit")
	if err != nil {
		return 0, err
	}

	usd, ok := pricePerUnit["USD"].(string)
	if !ok {
		return 0, fmt.Errorf("USD price not found or invalid")
	}

	price, err := strconv.ParseFloat(usd, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing price: %w", err)
	}

	return price, nil
}
