package upload

import "DemandCast/internal/domain/models"

// Columns is the sales-dataset contract. Column order here is the order the
// sample file and the schema listing use; the backend accepts any column
// order as long as the headers are present.
var Columns = []models.Column{
	{Name: "date", Type: models.ColumnDate, Required: true, Example: "01-06-2024"},
	{Name: "product_category", Type: models.ColumnString, Required: true, Example: "Electronics"},
	{Name: "product", Type: models.ColumnString, Required: true, Example: "Wireless Mouse"},
	{Name: "city", Type: models.ColumnString, Required: true, Example: "Mumbai"},
	{Name: "release_date", Type: models.ColumnDate, Required: true, Example: "15-01-2024"},
	{Name: "price", Type: models.ColumnNumber, Required: true, Example: "1299"},
	{Name: "last_month_sales", Type: models.ColumnNumber, Required: true, Example: "320"},
	{Name: "quantity_sold", Type: models.ColumnNumber, Required: true, Example: "14"},
	{Name: "discount", Type: models.ColumnNumber, Required: false, Example: "10"},
	{Name: "final_price", Type: models.ColumnNumber, Required: false, Example: "1169"},
	{Name: "marketing_spend", Type: models.ColumnNumber, Required: false, Example: "5000"},
}

// RequiredColumns returns the names every upload must carry.
func RequiredColumns() []string {
	names := make([]string, 0, len(Columns))
	for _, c := range Columns {
		if c.Required {
			names = append(names, c.Name)
		}
	}
	return names
}
