package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/cart"
	"github.com/MrJamesThe3rd/remito/internal/pipeline"
)

// RecordVersion is written into every record. Records without a version
// predate it and are read as version 1.
const RecordVersion = 1

// createdAtLayout matches what earlier versions of the shop wrote: local time
// without a zone.
const createdAtLayout = "2006-01-02T15:04:05"

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	createdAtLayout,
	time.DateTime,
}

// Record is the stored form of an order. Field names are shared with records
// written before this service existed and must not change.
type Record struct {
	Version          int          `json:"version"`
	OrderID          string       `json:"order_id"`
	ClientName       string       `json:"client_name"`
	ClientEmail      string       `json:"client_email"`
	Responsible      string       `json:"responsible"`
	CreatedAt        string       `json:"created_at"`
	Items            []ItemRecord `json:"items"`
	Total            float64      `json:"total"`
	State            string       `json:"state"`
	DocumentFilename string       `json:"document_filename"`
}

type ItemRecord struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	Vencimiento Label   `json:"vencimiento"`
	Margin      float64 `json:"margin"`
	FinalPrice  float64 `json:"final_price"`
	Qty         int     `json:"qty"`
}

// Label is a string that also accepts the numbers and nulls older records
// carry in text fields.
type Label string

func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*l = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*l = Label(s)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("label %s: %w", data, err)
		}

		*l = Label(data)
	}

	return nil
}

// DecodeRecord reads a stored record and migrates it to RecordVersion.
// key is the store key and fills a missing order id.
func DecodeRecord(key string, data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding order %s: %w", key, err)
	}

	migrate(&rec, key)

	return &rec, nil
}

func EncodeRecord(rec *Record) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding order %s: %w", rec.OrderID, err)
	}

	return data, nil
}

func migrate(rec *Record, key string) {
	if rec.Version == 0 {
		rec.Version = RecordVersion
	}

	if rec.OrderID == "" {
		rec.OrderID = key
	}

	if rec.Items == nil {
		rec.Items = []ItemRecord{}
	}

	if rec.State == "" {
		rec.State = string(pipeline.StatePedido)
	}
}

func parseCreatedAt(s string) time.Time {
	for _, layout := range createdAtLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}

	return time.Time{}
}

func toRecord(o *Order) *Record {
	items := make([]ItemRecord, len(o.Items))
	for i, l := range o.Items {
		items[i] = ItemRecord{
			ID:          l.ProductID,
			Name:        l.Name,
			Cost:        l.Cost.InexactFloat64(),
			Vencimiento: Label(l.Expiry),
			Margin:      l.Margin.InexactFloat64(),
			FinalPrice:  l.UnitPrice.InexactFloat64(),
			Qty:         l.Quantity,
		}
	}

	createdAt := ""
	if !o.CreatedAt.IsZero() {
		createdAt = o.CreatedAt.Local().Format(createdAtLayout)
	}

	return &Record{
		Version:          RecordVersion,
		OrderID:          o.ID,
		ClientName:       o.ClientName,
		ClientEmail:      o.ClientEmail,
		Responsible:      o.Responsible,
		CreatedAt:        createdAt,
		Items:            items,
		Total:            o.Total.InexactFloat64(),
		State:            string(o.State),
		DocumentFilename: o.DocumentFilename,
	}
}

func fromRecord(rec *Record) *Order {
	items := make([]cart.Line, len(rec.Items))
	for i, it := range rec.Items {
		items[i] = cart.Line{
			ProductID: it.ID,
			Name:      it.Name,
			Cost:      decimal.NewFromFloat(it.Cost),
			Expiry:    string(it.Vencimiento),
			Margin:    decimal.NewFromFloat(it.Margin),
			UnitPrice: decimal.NewFromFloat(it.FinalPrice),
			Quantity:  it.Qty,
		}
	}

	return &Order{
		ID:               rec.OrderID,
		ClientName:       rec.ClientName,
		ClientEmail:      rec.ClientEmail,
		Responsible:      rec.Responsible,
		CreatedAt:        parseCreatedAt(rec.CreatedAt),
		Items:            items,
		Total:            decimal.NewFromFloat(rec.Total),
		State:            pipeline.Normalize(rec.State),
		DocumentFilename: rec.DocumentFilename,
	}
}
