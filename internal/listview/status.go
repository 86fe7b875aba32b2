package listview

import "github.com/muurk/devinv/internal/inventory"

// Tag is the coloured label shown for a status. Color is a palette name
// and Hex the terminal colour it renders with.
type Tag struct {
	Text  string
	Color string
	Hex   string
}

// ErrorTag colours statuses the dashboard does not recognise.
var ErrorTag = Tag{Color: "red", Hex: "#FF4D4F"}

var statusTags = map[inventory.Status]Tag{
	inventory.StatusRunning:         {Color: "green", Hex: "#52C41A"},
	inventory.StatusInUse:           {Color: "green", Hex: "#52C41A"},
	inventory.StatusUnderRepair:     {Color: "gold", Hex: "#FAAD14"},
	inventory.StatusRetired:         {Color: "default", Hex: "#8C8C8C"},
	inventory.StatusIdle:            {Color: "blue", Hex: "#1677FF"},
	inventory.StatusPendingPurchase: {Color: "purple", Hex: "#722ED1"},
}

// StatusTag returns the tag for a status. Unknown values, including the
// empty string, get ErrorTag.
func StatusTag(s inventory.Status) Tag {
	tag, ok := statusTags[s]
	if !ok {
		tag = ErrorTag
	}
	tag.Text = string(s)
	return tag
}
