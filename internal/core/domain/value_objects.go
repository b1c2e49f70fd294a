package domain

type ID string

func (vo ID) String() string {
	return string(vo)
}

type Version int

// FieldType is the declared type of a dynamic field.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
	FieldTypeDate   FieldType = "date"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate:
		return true
	default:
		return false
	}
}

// Status models an asset's lifecycle state. Assets are never hard-deleted;
// retirement and loss are expressed as status transitions.
type Status string

const (
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusRetired     Status = "retired"
	StatusLost        Status = "lost"
	StatusTransferred Status = "transferred"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusRetired, StatusLost, StatusTransferred:
		return true
	default:
		return false
	}
}

// Action enumerates the auditable state-changing operations.
type Action string

const (
	ActionCreate      Action = "create"
	ActionView        Action = "view"
	ActionEdit        Action = "edit"
	ActionScan        Action = "scan"
	ActionAssign      Action = "assign"
	ActionMaintenance Action = "maintenance"
	ActionExport      Action = "export"
	ActionImport      Action = "import"
	ActionLogin       Action = "login"
	ActionLogout      Action = "logout"
)
