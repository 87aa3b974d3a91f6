package expense

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/gsantin/spesebot/internal/errors"
)

// Draft is the mutable expense record assembled one field at a time during a
// conversation flow. A draft only becomes a Record once every field has been
// set and validated.
type Draft struct {
	name      string
	day       int
	price     decimal.Decimal
	primary   Category
	secondary string

	hasName      bool
	hasDay       bool
	hasPrice     bool
	hasPrimary   bool
	hasSecondary bool
}

// Record is a completed, immutable expense ready to be appended to storage.
type Record struct {
	Name      string
	Day       int
	Price     decimal.Decimal
	Primary   Category
	Secondary string
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

func validation(message string) error {
	return apperrors.New(apperrors.ErrInvalidField.Code, message)
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	return apperrors.GetCode(err) == apperrors.ErrInvalidField.Code
}

// SetName sets the expense name. Fails if the text is empty after trimming.
func (d *Draft) SetName(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return validation("name must not be empty")
	}
	d.name = text
	d.hasName = true
	return nil
}

// SetDay parses and sets the day of month. The text must be all digits and
// the value must fall in 1..31. The day is never checked against the length
// of the active month.
func (d *Draft) SetDay(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return validation("day must not be empty")
	}
	day := 0
	for _, r := range text {
		if r < '0' || r > '9' {
			return validation("day must be a number between 1 and 31")
		}
		day = day*10 + int(r-'0')
		if day > 31 {
			return validation("day must be a number between 1 and 31")
		}
	}
	if day < 1 {
		return validation("day must be a number between 1 and 31")
	}
	d.day = day
	d.hasDay = true
	return nil
}

// SetPrice parses and sets the price. Both "." and "," are accepted as the
// decimal separator; the value must be strictly positive.
func (d *Draft) SetPrice(text string) error {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	price, err := decimal.NewFromString(text)
	if err != nil {
		return validation("price must be a number")
	}
	if !price.IsPositive() {
		return validation("price must be greater than zero")
	}
	d.price = price
	d.hasPrice = true
	return nil
}

// SetPrimary sets the primary category. The token must be a member of the
// closed category set; selection happens via buttons, so a miss here means a
// stale or forged callback.
func (d *Draft) SetPrimary(token string) error {
	if !ValidCategory(token) {
		return validation(fmt.Sprintf("unknown primary category %q", token))
	}
	d.primary = Category(token)
	d.hasPrimary = true
	return nil
}

// SetSecondary sets the free-form secondary category. Fails if empty after
// trimming.
func (d *Draft) SetSecondary(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return validation("secondary category must not be empty")
	}
	d.secondary = text
	d.hasSecondary = true
	return nil
}

// Complete returns the finished record. It fails unless all five fields have
// been set and validated.
func (d *Draft) Complete() (Record, error) {
	if !d.hasName || !d.hasDay || !d.hasPrice || !d.hasPrimary || !d.hasSecondary {
		return Record{}, validation("draft is incomplete")
	}
	return Record{
		Name:      d.name,
		Day:       d.day,
		Price:     d.price,
		Primary:   d.primary,
		Secondary: d.secondary,
	}, nil
}

// Summary renders the record for the confirmation prompt. The price always
// carries exactly two decimal places.
func (r Record) Summary() string {
	return fmt.Sprintf(
		"Expense summary:\n- Name: %s\n- Day: %d\n- Price: %s\n- Primary category: %s\n- Secondary category: %s",
		r.Name, r.Day, r.Price.StringFixed(2), r.Primary, r.Secondary,
	)
}

// Row returns the spreadsheet row in the fixed column order.
func (r Record) Row() []interface{} {
	return []interface{}{r.Name, r.Day, r.Price.StringFixed(2), string(r.Primary), r.Secondary}
}
