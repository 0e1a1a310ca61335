package schema

// StoreStatus represents the status of the record store.
type StoreStatus struct {
	Backend    string           `json:"backend"`
	Connected  bool             `json:"connected"`
	TableSizes map[string]int64 `json:"table_sizes"`
	SizeBytes  int64            `json:"size_bytes"`
}
