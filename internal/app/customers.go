package app

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// CustomerStore keeps customer contact data current after each booking.
type CustomerStore interface {
	Upsert(ctx context.Context, c Customer) error
}

const customerRange = "Customers!A1:E"

// SheetsCustomerStore keeps customers in a Google Sheet, one row per user:
// UserID | Name | Email | Phone | Login Source. The first row may be a header.
type SheetsCustomerStore struct {
	srv           *sheets.Service
	spreadsheetID string
}

func NewSheetsCustomerStore(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*SheetsCustomerStore, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsCustomerStore{srv: srv, spreadsheetID: spreadsheetID}, nil
}

func (s *SheetsCustomerStore) Upsert(ctx context.Context, c Customer) error {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, customerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read customer sheet: %w", err)
	}

	rows := resp.Values
	start := 0
	if len(rows) > 0 && len(rows[0]) > 0 && rows[0][0] == "UserID" {
		start = 1
	}

	source := c.LoginSource
	if source == "" {
		source = "Unknown"
	}
	values := []interface{}{c.UserID, c.Name, c.Email, c.PhoneNumber, source}

	for i := start; i < len(rows); i++ {
		if len(rows[i]) > 0 && rows[i][0] == c.UserID {
			rng := fmt.Sprintf("Customers!A%d:E%d", i+1, i+1)
			_, err := s.srv.Spreadsheets.Values.
				Update(s.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{values}}).
				ValueInputOption("RAW").
				Context(ctx).Do()
			if err != nil {
				return fmt.Errorf("update customer row %d: %w", i+1, err)
			}
			log.Printf("updated customer data for user %s", c.UserID)
			return nil
		}
	}

	_, err = s.srv.Spreadsheets.Values.
		Append(s.spreadsheetID, "Customers!A:E", &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append customer row: %w", err)
	}
	log.Printf("added customer data for user %s", c.UserID)
	return nil
}
