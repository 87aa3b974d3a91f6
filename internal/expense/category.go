package expense

// Category is the closed set of primary expense categories. The set mirrors
// the column taxonomy of the destination spreadsheet and never grows at
// runtime.
type Category string

const (
	CategoryHousing       Category = "Housing"
	CategoryHealth        Category = "Health"
	CategoryGroceries     Category = "Groceries"
	CategoryTransport     Category = "Transport"
	CategoryOut           Category = "Out"
	CategoryTravel        Category = "Travel"
	CategoryClothing      Category = "Clothing"
	CategoryLeisure       Category = "Leisure"
	CategoryGifts         Category = "Gifts"
	CategoryFees          Category = "Fees"
	CategoryOtherExpenses Category = "OtherExpenses"
)

// Categories lists all primary categories in the order they are presented to
// the user.
var Categories = []Category{
	CategoryHousing,
	CategoryHealth,
	CategoryGroceries,
	CategoryTransport,
	CategoryOut,
	CategoryTravel,
	CategoryClothing,
	CategoryLeisure,
	CategoryGifts,
	CategoryFees,
	CategoryOtherExpenses,
}

// ValidCategory reports whether token is a member of the closed category set.
func ValidCategory(token string) bool {
	for _, c := range Categories {
		if string(c) == token {
			return true
		}
	}
	return false
}

// Months lists the worksheet partition tokens, one per month.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// DefaultMonth is the partition selected at startup.
const DefaultMonth = "Sep"

// ValidMonth reports whether token is one of the twelve month tokens.
func ValidMonth(token string) bool {
	for _, m := range Months {
		if m == token {
			return true
		}
	}
	return false
}
