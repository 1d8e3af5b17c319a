package billing

import "github.com/shopspring/decimal"

// ConceptKind classifies one line of a payment breakdown.
type ConceptKind string

const (
	ConceptService     ConceptKind = "SERVICIO"
	ConceptIVA         ConceptKind = "IVA"
	ConceptRent        ConceptKind = "ALQUILER"
	ConceptPunitory    ConceptKind = "PUNITORIOS"
	ConceptOverpayment ConceptKind = "A_FAVOR"
	ConceptDebtRent    ConceptKind = "ALQUILER_DEUDA"
	// ConceptPreviousBalance shows the credit carried from the previous
	// period. It is informational and not part of the amount.
	ConceptPreviousBalance ConceptKind = "SALDO_ANTERIOR"
)

// Valid reports whether k is a known concept kind.
func (k ConceptKind) Valid() bool {
	switch k {
	case ConceptService, ConceptIVA, ConceptRent, ConceptPunitory, ConceptOverpayment, ConceptDebtRent, ConceptPreviousBalance:
		return true
	}
	return false
}

// ServiceLine is one extra charge or discount on a monthly record.
type ServiceLine struct {
	ID       uint
	Label    string
	Amount   float64
	Discount bool
}

// LedgerState is what a monthly record owes and has received so far.
type LedgerState struct {
	Rent            float64
	IVA             float64
	Services        []ServiceLine
	PreviousBalance float64
	AmountPaid      float64
}

// ServicesTotal nets charges against discounts.
func (s LedgerState) ServicesTotal() float64 {
	total := decimal.Zero
	for _, l := range s.Services {
		if l.Discount {
			total = total.Sub(dec(l.Amount))
		} else {
			total = total.Add(dec(l.Amount))
		}
	}
	return total.InexactFloat64()
}

// ServiceDue is the unpaid share of one charge line.
type ServiceDue struct {
	ServiceID uint
	Label     string
	Amount    float64
}

// Outstanding is what is still owed per concept once the credit carried
// from the previous period and prior payments are applied in waterfall
// order: services, IVA, rent. Surplus is coverage left after rent, which
// is available to absorb frozen punitory.
type Outstanding struct {
	Services     float64
	ServiceLines []ServiceDue
	IVA          float64
	Rent         float64
	Surplus      float64
}

// Total is the sum of every outstanding concept.
func (o Outstanding) Total() float64 {
	return dec(o.Services).Add(dec(o.IVA)).Add(dec(o.Rent)).InexactFloat64()
}

// Outstanding walks prior coverage through services, IVA and rent.
func (s LedgerState) Outstanding() Outstanding {
	covered := maxZero(dec(s.AmountPaid).Add(dec(s.PreviousBalance)))

	services := maxZero(dec(s.ServicesTotal()))
	svcCovered := minDec(covered, services)
	covered = covered.Sub(svcCovered)
	servicesOut := services.Sub(svcCovered)

	iva := maxZero(dec(s.IVA))
	ivaCovered := minDec(covered, iva)
	covered = covered.Sub(ivaCovered)

	rent := maxZero(dec(s.Rent))
	rentCovered := minDec(covered, rent)
	covered = covered.Sub(rentCovered)

	return Outstanding{
		Services:     servicesOut.InexactFloat64(),
		ServiceLines: s.serviceShares(servicesOut),
		IVA:          iva.Sub(ivaCovered).InexactFloat64(),
		Rent:         rent.Sub(rentCovered).InexactFloat64(),
		Surplus:      covered.InexactFloat64(),
	}
}

// serviceShares spreads the unpaid services amount over the charge lines in
// proportion to their size. The last line absorbs rounding.
func (s LedgerState) serviceShares(unpaid decimal.Decimal) []ServiceDue {
	if !unpaid.IsPositive() {
		return nil
	}
	var charges []ServiceLine
	gross := decimal.Zero
	for _, l := range s.Services {
		if !l.Discount && l.Amount > 0 {
			charges = append(charges, l)
			gross = gross.Add(dec(l.Amount))
		}
	}
	if !gross.IsPositive() {
		return nil
	}

	shares := make([]ServiceDue, 0, len(charges))
	assigned := decimal.Zero
	for i, l := range charges {
		share := dec(l.Amount).Mul(unpaid).Div(gross).Round(2)
		if i == len(charges)-1 {
			share = unpaid.Sub(assigned)
		}
		assigned = assigned.Add(share)
		shares = append(shares, ServiceDue{ServiceID: l.ID, Label: l.Label, Amount: share.InexactFloat64()})
	}
	return shares
}

// UnpaidRent is the rent portion still owed after prior coverage.
func (s LedgerState) UnpaidRent() float64 {
	return s.Outstanding().Rent
}

// Concept is one line of a payment breakdown.
type Concept struct {
	Kind          ConceptKind `json:"kind"`
	Label         string      `json:"label"`
	Amount        float64     `json:"amount"`
	ServiceID     *uint       `json:"service_id,omitempty"`
	Informational bool        `json:"informational,omitempty"`
}

// Imputation is how one payment was allocated.
type Imputation struct {
	Concepts    []Concept   `json:"concepts"`
	Outstanding Outstanding `json:"-"`
	Punitory    float64     `json:"punitory"`
	Overpayment float64     `json:"overpayment"`
}

// Sum adds up every concept except informational lines; it always equals
// the allocated amount.
func (i Imputation) Sum() float64 {
	total := decimal.Zero
	for _, c := range i.Concepts {
		if c.Informational {
			continue
		}
		total = total.Add(dec(c.Amount))
	}
	return total.InexactFloat64()
}

// Allocate splits amount across services, IVA, rent and punitory in that
// order. Whatever is left becomes an overpayment credited forward. The first
// payment on a record with a carried credit opens with an informational
// previous-balance line.
func Allocate(state LedgerState, amount, punitory float64) Imputation {
	out := state.Outstanding()
	result := Imputation{Outstanding: out, Punitory: punitory}
	remaining := maxZero(dec(amount))

	if state.PreviousBalance > 0 && state.AmountPaid <= 0 {
		result.Concepts = append(result.Concepts, Concept{
			Kind:          ConceptPreviousBalance,
			Label:         "Saldo anterior a favor",
			Amount:        state.PreviousBalance,
			Informational: true,
		})
	}

	take := func(kind ConceptKind, label string, owed decimal.Decimal, serviceID *uint) {
		if !remaining.IsPositive() || !owed.IsPositive() {
			return
		}
		part := minDec(remaining, owed)
		remaining = remaining.Sub(part)
		result.Concepts = append(result.Concepts, Concept{
			Kind:      kind,
			Label:     label,
			Amount:    part.InexactFloat64(),
			ServiceID: serviceID,
		})
	}

	for _, line := range out.ServiceLines {
		id := line.ServiceID
		take(ConceptService, line.Label, dec(line.Amount), &id)
	}
	take(ConceptIVA, "IVA", dec(out.IVA), nil)
	take(ConceptRent, "Alquiler", dec(out.Rent), nil)
	take(ConceptPunitory, "Punitorios", dec(punitory), nil)

	if remaining.IsPositive() {
		result.Overpayment = remaining.InexactFloat64()
		result.Concepts = append(result.Concepts, Concept{
			Kind:   ConceptOverpayment,
			Label:  "Saldo a favor",
			Amount: result.Overpayment,
		})
	}
	return result
}

// DebtSplit is how a debt payment divides between rent and punitory.
type DebtSplit struct {
	Rent     float64
	Punitory float64
}

// SplitDebtPayment applies amount to remaining rent first and the rest to
// punitory.
func SplitDebtPayment(amount, remainingRent float64) DebtSplit {
	total := maxZero(dec(amount))
	rent := minDec(total, maxZero(dec(remainingRent)))
	return DebtSplit{
		Rent:     rent.InexactFloat64(),
		Punitory: total.Sub(rent).InexactFloat64(),
	}
}

// Concepts renders the split as breakdown lines.
func (d DebtSplit) Concepts() []Concept {
	var concepts []Concept
	if d.Rent > 0 {
		concepts = append(concepts, Concept{Kind: ConceptDebtRent, Label: "Alquiler adeudado", Amount: d.Rent})
	}
	if d.Punitory > 0 {
		concepts = append(concepts, Concept{Kind: ConceptPunitory, Label: "Punitorios", Amount: d.Punitory})
	}
	return concepts
}
