package models

const (
	BinStatusAvailable = "AVAILABLE"
	BinStatusAssigned  = "ASSIGNED"
)

// FullLevelThreshold is the fill percentage at which a bin is reported as
// nearly full.
const FullLevelThreshold = 80

type Bin struct {
	BinID         string   `json:"binId" db:"bin_id"`
	Status        string   `json:"status" db:"status"`
	OwnerID       *string  `json:"ownerId,omitempty" db:"owner_id"`
	AssignedDate  *string  `json:"assignedDate,omitempty" db:"assigned_date"`
	Latitude      *float64 `json:"latitude" db:"latitude"`
	Longitude     *float64 `json:"longitude" db:"longitude"`
	PlasticLevel  *int     `json:"plasticLevel,omitempty" db:"plastic_level"`
	PaperLevel    *int     `json:"paperLevel,omitempty" db:"paper_level"`
	GlassLevel    *int     `json:"glassLevel,omitempty" db:"glass_level"`
	LastEmptiedAt *string  `json:"lastEmptiedAt,omitempty" db:"last_emptied_at"`
}

func (b Bin) EntityID() string    { return b.BinID }
func (b Bin) DisplayName() string { return b.BinID }

// HasLocation reports whether both coordinates are present.
func (b Bin) HasLocation() bool {
	return b.Latitude != nil && b.Longitude != nil
}

// Levels returns the plastic, paper and glass readings, zero when unknown.
func (b Bin) Levels() (plastic, paper, glass int) {
	return intValue(b.PlasticLevel), intValue(b.PaperLevel), intValue(b.GlassLevel)
}

// MaxLevel is the fullest compartment of the bin.
func (b Bin) MaxLevel() int {
	p, pa, g := b.Levels()
	return max(p, pa, g)
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// AddBinRequest is the request body for POST /api/bins/add
type AddBinRequest struct {
	BinID string `json:"binId"`
}

// UpdateBinLocationRequest is the request body for PUT /api/bins/{binId}
type UpdateBinLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BinStatusUpdate is a sensor reading, both as ingested by the backend and
// as pushed over the bin-status WebSocket.
type BinStatusUpdate struct {
	BinID         string `json:"binId"`
	PlasticLevel  int    `json:"plasticLevel"`
	PaperLevel    int    `json:"paperLevel"`
	GlassLevel    int    `json:"glassLevel"`
	LastEmptiedAt string `json:"lastEmptiedAt,omitempty"`
}

// MaxLevel is the fullest compartment in the reading.
func (u BinStatusUpdate) MaxLevel() int {
	return max(u.PlasticLevel, u.PaperLevel, u.GlassLevel)
}
