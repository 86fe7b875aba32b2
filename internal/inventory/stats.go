package inventory

// StatusCount is one row of the status distribution.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// TypeCount is one row of the type distribution.
type TypeCount struct {
	Type  Type `json:"type"`
	Count int  `json:"count"`
}

// Stats is the aggregate snapshot computed by the backend on demand.
// Entries keep the order the backend returned them in.
type Stats struct {
	StatusStats        []StatusCount `json:"status_stats"`
	TypeStats          []TypeCount   `json:"type_stats"`
	TotalDevices       int           `json:"total_devices"`
	OnlineDevices      int           `json:"online_devices"`
	MaintenanceDevices int           `json:"maintenance_devices"`
	PurchasingDevices  int           `json:"purchasing_devices"`
}

// OnlineStatuses are the statuses the backend counts as online.
var OnlineStatuses = []Status{StatusInUse, StatusIdle}
