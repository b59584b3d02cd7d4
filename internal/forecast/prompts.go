package forecast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockpilot/internal/domain"
	"google.golang.org/genai"
)

const forecastSystemInstruction = "You are an e-commerce data analyst. Your goal is to provide accurate sales forecasts and concise insights based on historical data, accounting for promotions. Respond ONLY with a valid JSON object matching the requested schema."

var forecastSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"forecastedVelocity": {
			Type:        genai.TypeNumber,
			Description: "The forecasted average daily sales velocity, normalized to account for promotions.",
		},
		"analysis": {
			Type:        genai.TypeString,
			Description: "A brief, one-sentence analysis of the sales trend, mentioning any promotions.",
		},
	},
	Required: []string{"forecastedVelocity", "analysis"},
}

func forecastPrompt(variant domain.ProductVariant, recentSales []domain.SalesHistoryEntry, promotions []domain.Promotion) string {
	units := make([]string, len(recentSales))
	for i, s := range recentSales {
		units[i] = strconv.Itoa(s.UnitsSold)
	}

	promotionContext := "There were no major promotions during this period."
	if len(promotions) > 0 {
		p := promotions[0]
		promotionContext = fmt.Sprintf("There was a promotion titled %q from %s to %s.", p.Title, p.StartDate, p.EndDate)
	}

	return fmt.Sprintf(`
Analyze the following daily sales data for the product %q over the last 30 days.
Sales Data: [%s]

Additional Context:
%s

Act as an e-commerce supply chain expert. Your primary goal is to determine the true organic daily sales velocity, factoring out the temporary spike caused by any promotions.

1.  Calculate a forecasted average daily sales velocity for the next 30 days, attempting to normalize for the promotional lift.
2.  Provide a brief, one-sentence analysis explaining your forecast, specifically mentioning the promotion's impact if applicable.
`, variant.Name, strings.Join(units, ", "), promotionContext)
}

func reorderPrompt(p domain.ProcessedProduct, coverDays int) string {
	return fmt.Sprintf(`
You are an expert inventory manager for an e-commerce store.
Based on the following data for the product %q, provide a concise reorder suggestion.

Current Data:
- Product Name: %s
- SKU: %s
- Current Total Stock: %d units
- Forecasted Daily Sales: %s units/day
- Supplier Lead Time: %d days

Your task is to recommend a quantity to reorder.
Your suggestion should aim to cover at least a %d-day sales period AFTER the new stock arrives.
Explain your reasoning in one or two sentences. Respond only with the suggestion text.

Example response format: "To prevent a stockout and maintain a %d-day supply, I recommend reordering at least 250 units. This covers the 10-day lead time and forecasted demand."
`, p.Name, p.Name, p.SKU, p.TotalStock,
		strconv.FormatFloat(p.SalesVelocity, 'f', -1, 64),
		p.AlertSetting.SupplierLeadTimeDays, coverDays, coverDays)
}
