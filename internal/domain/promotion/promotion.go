package promotion

import (
	"errors"
	"strings"
	"time"

	"cart-engine/internal/pkg/clock"
	"cart-engine/internal/pkg/money"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownScope     = errors.New("unknown promotion scope")
	ErrUnknownMethod    = errors.New("unknown promotion method")
	ErrEmptyTarget      = errors.New("promotion target is required")
	ErrInvalidMagnitude = errors.New("promotion magnitude out of range")
	ErrInvalidDate      = errors.New("promotion date is malformed")
	ErrInvalidWindow    = errors.New("promotion ends before it starts")
	ErrInvalidUsage     = errors.New("promotion usage counters are negative")
)

type Scope int

const (
	ScopeProduct Scope = iota + 1
	ScopeBrand
)

func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "product", "item":
		return ScopeProduct, nil
	case "brand":
		return ScopeBrand, nil
	default:
		return 0, ErrUnknownScope
	}
}

func (s Scope) String() string {
	switch s {
	case ScopeProduct:
		return "product"
	case ScopeBrand:
		return "brand"
	default:
		return "unknown"
	}
}

type Method int

const (
	ByPercent Method = iota + 1
	ByValue
)

func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percent", "percentage", "by_percent":
		return ByPercent, nil
	case "value", "fixed", "by_value":
		return ByValue, nil
	default:
		return 0, ErrUnknownMethod
	}
}

func (m Method) String() string {
	switch m {
	case ByPercent:
		return "percent"
	case ByValue:
		return "value"
	default:
		return "unknown"
	}
}

// Raw is the catalog wire form of a promotion.
type Raw struct {
	ID         string          `json:"id"`
	Scope      string          `json:"scope"`
	Target     string          `json:"target"`
	Method     string          `json:"method"`
	Magnitude  decimal.Decimal `json:"magnitude"`
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	UsageLimit *int            `json:"usageLimit"`
	UsageUsed  int             `json:"usageUsed"`
}

// Subject is what a promotion's scope is matched against.
type Subject struct {
	ProductID string
	BrandID   string
}

// Promotion is a pricing rule over {Product, Brand} x {ByPercent, ByValue}.
// A promotion decoded from malformed data keeps the decode error and is never eligible.
type Promotion struct {
	id         string
	scope      Scope
	target     string
	method     Method
	magnitude  decimal.Decimal
	start      time.Time
	end        time.Time
	usageLimit *int
	usageUsed  int
	err        error
}

func New(
	id string,
	scope Scope,
	target string,
	method Method,
	magnitude decimal.Decimal,
	start, end time.Time,
	usageLimit *int,
	usageUsed int,
) (Promotion, error) {
	p := Promotion{
		id:         id,
		scope:      scope,
		target:     target,
		method:     method,
		magnitude:  magnitude,
		start:      clock.Today(start),
		end:        clock.Today(end),
		usageLimit: usageLimit,
		usageUsed:  usageUsed,
	}
	if err := p.validate(); err != nil {
		return Promotion{}, err
	}
	return p, nil
}

// Decode converts a catalog promotion. It never fails; see Err.
func Decode(raw Raw) Promotion {
	p := Promotion{
		id:         raw.ID,
		target:     raw.Target,
		magnitude:  raw.Magnitude,
		usageLimit: raw.UsageLimit,
		usageUsed:  raw.UsageUsed,
	}

	var err error
	if p.scope, err = ParseScope(raw.Scope); err != nil {
		p.err = err
		return p
	}
	if p.method, err = ParseMethod(raw.Method); err != nil {
		p.err = err
		return p
	}
	if p.start, err = parseDate(raw.StartDate); err != nil {
		p.err = err
		return p
	}
	if p.end, err = parseDate(raw.EndDate); err != nil {
		p.err = err
		return p
	}
	p.err = p.validate()
	return p
}

func DecodeAll(raws []Raw) []Promotion {
	out := make([]Promotion, 0, len(raws))
	for _, r := range raws {
		out = append(out, Decode(r))
	}
	return out
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return clock.Today(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

func (p Promotion) validate() error {
	if p.target == "" {
		return ErrEmptyTarget
	}
	switch p.scope {
	case ScopeProduct, ScopeBrand:
	default:
		return ErrUnknownScope
	}
	switch p.method {
	case ByPercent:
		if p.magnitude.IsNegative() || p.magnitude.GreaterThan(decimal.NewFromInt(100)) {
			return ErrInvalidMagnitude
		}
	case ByValue:
		if p.magnitude.IsNegative() {
			return ErrInvalidMagnitude
		}
	default:
		return ErrUnknownMethod
	}
	if p.end.Before(p.start) {
		return ErrInvalidWindow
	}
	if p.usageUsed < 0 || (p.usageLimit != nil && *p.usageLimit < 0) {
		return ErrInvalidUsage
	}
	return nil
}

// Err reports why the promotion could not be decoded, nil when it is well formed.
func (p Promotion) Err() error { return p.err }

// EligibleOn reports whether the promotion may be used on the given calendar day.
func (p Promotion) EligibleOn(day time.Time) bool {
	if p.err != nil {
		return false
	}
	today := clock.Today(day)
	if today.Before(p.start) || today.After(p.end) {
		return false
	}
	if p.usageLimit != nil && p.usageUsed >= *p.usageLimit {
		return false
	}
	return true
}

func (p Promotion) AppliesTo(s Subject) bool {
	if p.err != nil {
		return false
	}
	switch p.scope {
	case ScopeProduct:
		return s.ProductID != "" && p.target == s.ProductID
	case ScopeBrand:
		return s.BrandID != "" && p.target == s.BrandID
	default:
		return false
	}
}

// DiscountOn is the currency discount this promotion alone grants on base,
// never more than base itself.
func (p Promotion) DiscountOn(base decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch p.method {
	case ByPercent:
		d = money.PercentOf(base, p.magnitude)
	case ByValue:
		d = p.magnitude
	default:
		return decimal.Zero
	}
	return money.Min(money.Floor0(d), money.Floor0(base))
}

func (p Promotion) ID() string                 { return p.id }
func (p Promotion) Scope() Scope               { return p.scope }
func (p Promotion) Target() string             { return p.target }
func (p Promotion) Method() Method             { return p.method }
func (p Promotion) Magnitude() decimal.Decimal { return p.magnitude }
func (p Promotion) StartDate() time.Time       { return p.start }
func (p Promotion) EndDate() time.Time         { return p.end }
func (p Promotion) UsageLimit() *int           { return p.usageLimit }
func (p Promotion) UsageUsed() int             { return p.usageUsed }
