package listing

// Reference points at one listing's detail page, produced during discovery.
// References are unique by ItemID within a single discovery run.
type Reference struct {
	ItemID string `json:"item_id"`
	URL    string `json:"url"`
}

// Record is the normalized output for one equipment listing. ItemID and URL
// are always non-empty; every other field degrades to its zero value when the
// source markup is missing it.
type Record struct {
	ItemID             string   `json:"item_id"`
	Title              string   `json:"title"`
	Condition          string   `json:"condition"`
	Location           string   `json:"location"`
	Category           string   `json:"category"`
	ListingType        string   `json:"listing_type"`
	Manufacturer       string   `json:"manufacturer"`
	Model              string   `json:"model"`
	YearOfManufacturer string   `json:"year_of_manufacturer"`
	Description        string   `json:"description"`
	Pictures           []string `json:"pictures"`
	URL                string   `json:"url"`
}
