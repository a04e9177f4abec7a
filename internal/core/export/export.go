package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"surplus-scraper/internal/core/listing"
)

// Header is the fixed CSV column order of the export contract.
var Header = []string{
	"item_id", "title", "condition", "location", "category", "listing_type",
	"manufacturer", "model", "year_of_manufacturer", "description", "pictures", "url",
}

// PictureSeparator joins picture URLs into the single CSV pictures column.
const PictureSeparator = ";"

// WriteCSV writes records as CSV with the fixed header, pictures joined by
// PictureSeparator.
func WriteCSV(w io.Writer, records []listing.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ItemID,
			r.Title,
			r.Condition,
			r.Location,
			r.Category,
			r.ListingType,
			r.Manufacturer,
			r.Model,
			r.YearOfManufacturer,
			r.Description,
			strings.Join(r.Pictures, PictureSeparator),
			r.URL,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes records as a JSON array, pictures as an array of URL
// strings.
func WriteJSON(w io.Writer, records []listing.Record) error {
	if records == nil {
		records = []listing.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}
