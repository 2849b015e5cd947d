package fmp

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/aristath/graham/internal/domain"
)

// flexFloat decodes a JSON number, a numeric string, or null. Anything
// unparseable decodes as absent rather than failing the whole payload.
type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	*f = flexFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	s := string(data)
	if data[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return nil
		}
		s = strings.TrimSpace(unquoted)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

// Ptr returns the value, or nil when absent.
func (f flexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// Or returns the value, or def when absent.
func (f flexFloat) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

type earningsRecord struct {
	Symbol           string    `json:"symbol"`
	Date             string    `json:"date"`
	RevenueActual    flexFloat `json:"revenueActual"`
	RevenueEstimated flexFloat `json:"revenueEstimated"`
}

func (r earningsRecord) toDomain() domain.EarningsReport {
	return domain.EarningsReport{
		Symbol:           r.Symbol,
		Date:             domain.ParseDate(r.Date),
		RevenueActual:    r.RevenueActual.Ptr(),
		RevenueEstimated: r.RevenueEstimated.Ptr(),
	}
}

type sharesFloatRecord struct {
	Symbol            string    `json:"symbol"`
	Date              string    `json:"date"`
	FreeFloat         flexFloat `json:"freeFloat"`
	FloatShares       flexFloat `json:"floatShares"`
	OutstandingShares flexFloat `json:"outstandingShares"`
	Source            string    `json:"source"`
}

type treasuryRecord struct {
	Date   string    `json:"date"`
	Month1 flexFloat `json:"month1"`
	Month2 flexFloat `json:"month2"`
	Month3 flexFloat `json:"month3"`
	Month6 flexFloat `json:"month6"`
	Year1  flexFloat `json:"year1"`
	Year2  flexFloat `json:"year2"`
	Year3  flexFloat `json:"year3"`
	Year5  flexFloat `json:"year5"`
	Year7  flexFloat `json:"year7"`
	Year10 flexFloat `json:"year10"`
	Year20 flexFloat `json:"year20"`
	Year30 flexFloat `json:"year30"`
}

func (r treasuryRecord) toDomain() domain.TreasuryCurvePoint {
	return domain.TreasuryCurvePoint{
		Date:   domain.ParseDate(r.Date),
		Month1: r.Month1.Or(0),
		Month2: r.Month2.Or(0),
		Month3: r.Month3.Or(0),
		Month6: r.Month6.Or(0),
		Year1:  r.Year1.Or(0),
		Year2:  r.Year2.Or(0),
		Year3:  r.Year3.Or(0),
		Year5:  r.Year5.Or(0),
		Year7:  r.Year7.Or(0),
		Year10: r.Year10.Or(0),
		Year20: r.Year20.Or(0),
		Year30: r.Year30.Or(0),
	}
}

type profileRecord struct {
	Symbol            string    `json:"symbol"`
	CompanyName       string    `json:"companyName"`
	Exchange          string    `json:"exchange"`
	ExchangeShortName string    `json:"exchangeShortName"`
	Sector            string    `json:"sector"`
	Country           string    `json:"country"`
	FullTimeEmployees flexFloat `json:"fullTimeEmployees"`
	Website           string    `json:"website"`
	Description       string    `json:"description"`
}

func (r profileRecord) toDomain() domain.CompanyProfile {
	exchange := r.ExchangeShortName
	if exchange == "" {
		exchange = r.Exchange
	}
	return domain.CompanyProfile{
		Symbol:            r.Symbol,
		CompanyName:       r.CompanyName,
		Exchange:          exchange,
		Sector:            r.Sector,
		Country:           r.Country,
		FullTimeEmployees: int64(r.FullTimeEmployees.Or(0)),
		Website:           r.Website,
		Description:       r.Description,
	}
}

type marketCapRecord struct {
	Symbol    string    `json:"symbol"`
	Date      string    `json:"date"`
	MarketCap flexFloat `json:"marketCap"`
}

type dividendRecord struct {
	Date            string    `json:"date"`
	Label           string    `json:"label"`
	AdjDividend     flexFloat `json:"adjDividend"`
	Dividend        flexFloat `json:"dividend"`
	RecordDate      string    `json:"recordDate"`
	PaymentDate     string    `json:"paymentDate"`
	DeclarationDate string    `json:"declarationDate"`
}

func (r dividendRecord) toDomain() domain.DividendEvent {
	return domain.DividendEvent{
		Date:            domain.ParseDate(r.Date),
		Label:           r.Label,
		Dividend:        r.Dividend.Or(0),
		AdjDividend:     r.AdjDividend.Or(0),
		RecordDate:      r.RecordDate,
		PaymentDate:     r.PaymentDate,
		DeclarationDate: r.DeclarationDate,
	}
}

// nonZero returns v when it is present and non-zero, nil otherwise.
func nonZero(v flexFloat) *float64 {
	if !v.Valid || v.Value == 0 {
		return nil
	}
	return v.Ptr()
}
