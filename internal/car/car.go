// Package car holds the car record model and the edit-form values used to
// create or update one.
package car

// RemarkPlaceholder is shown in place of an absent remark.
const RemarkPlaceholder = "-"

// Record is one vehicle's registration data as returned by the backend.
// ID is assigned by the backend; the client never generates ids.
type Record struct {
	ID      string  `json:"id,omitempty"`
	License string  `json:"license"`
	Brand   string  `json:"brand"`
	Series  string  `json:"series"`
	Remark  *string `json:"remark,omitempty"`
}

// RemarkOrPlaceholder returns the remark, or RemarkPlaceholder when absent or empty.
func (r Record) RemarkOrPlaceholder() string {
	if r.Remark == nil || *r.Remark == "" {
		return RemarkPlaceholder
	}
	return *r.Remark
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	if r.Remark != nil {
		remark := *r.Remark
		out.Remark = &remark
	}
	return out
}

// CloneAll copies a slice of records. A nil slice stays nil.
func CloneAll(recs []Record) []Record {
	if recs == nil {
		return nil
	}
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}
	return out
}

// StringPtr returns a pointer to s. Handy for building records with a remark.
func StringPtr(s string) *string {
	return &s
}

// Mode selects whether a form submission creates or updates a record.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "Create"
	case ModeEdit:
		return "Edit"
	default:
		return "Unknown"
	}
}
