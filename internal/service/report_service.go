package service

import (
	"context"
	"encoding/csv"
	"io"
	"log"
	"strings"
	"time"

	"finleybook/internal/domain"

	"github.com/shopspring/decimal"
)

// ReportService ingests merchant-supplied CSV commission reports through the
// same reconciliation path as live webhooks. Column names are matched loosely
// (case-insensitive, several synonyms per field) because every network
// exports a slightly different report.
type ReportService struct {
	cashback *CashbackService
}

func NewReportService(cashback *CashbackService) *ReportService {
	return &ReportService{cashback: cashback}
}

// Column synonyms, keyed by normalized header (lowercase, no spaces,
// underscores or dashes).
var csvColumns = map[string]string{
	"transactionid": "txid", "transaction": "txid", "txid": "txid",
	"orderid": "txid", "ref": "txid", "reference": "txid", "externalid": "txid", "id": "txid",
	"status": "status", "state": "status",
	"commission": "commission", "commissionamount": "commission", "payout": "commission",
	"salevalue": "order", "orderamount": "order", "ordervalue": "order",
	"amount": "order", "saleamount": "order",
	"clickid": "click", "subid": "click", "customid": "click", "clickref": "click",
	"userid": "user", "uniqueid": "user",
	"currency": "currency", "cur": "currency",
	"date": "date", "datecreated": "date", "transactiondate": "date", "eventtime": "date",
}

var csvDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ProcessCSV reads a report and reconciles each row. A bad row is counted and
// skipped; it never aborts the batch. Returns (processed, errored).
func (s *ReportService) ProcessCSV(ctx context.Context, merchantRef string, r io.Reader) (int, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, 0, err
	}
	cols := map[string]int{} // canonical field -> column index
	for i, h := range header {
		if canon, ok := csvColumns[normalizeHeader(h)]; ok {
			if _, taken := cols[canon]; !taken {
				cols[canon] = i
			}
		}
	}

	processed, errored := 0, 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errored++
			continue
		}
		ev, ok := s.rowToEvent(merchantRef, cols, record)
		if !ok {
			errored++
			continue
		}
		if _, err := s.cashback.Reconcile(ctx, ev); err != nil {
			log.Printf("[report] row for tx=%s failed: %v", ev.ExternalTxID, err)
			errored++
			continue
		}
		processed++
	}
	return processed, errored, nil
}

func (s *ReportService) rowToEvent(merchantRef string, cols map[string]int, record []string) (CommissionEvent, bool) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	txid := field("txid")
	status := field("status")
	if txid == "" || status == "" {
		return CommissionEvent{}, false
	}
	ev := CommissionEvent{
		Network:         domain.NetworkCSV,
		ExternalTxID:    txid,
		ClickRef:        field("click"),
		UserRef:         field("user"),
		MerchantRef:     merchantRef,
		RawStatus:       status,
		OrderCents:      parseCents(field("order")),
		CommissionCents: parseCents(field("commission")),
		Currency:        strings.ToUpper(field("currency")),
		OccurredAt:      parseReportDate(field("date")),
	}
	return ev, true
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
	return h
}

// parseCents converts a decimal money string ("12.34") to cents. Unparseable
// values come back as 0; the reconciler records the event regardless.
func parseCents(s string) int64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func parseReportDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
