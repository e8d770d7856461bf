package entity

import "time"

// ItemFolder is a pre-applied label on a mail folder that biases
// classification before any keyword matching runs.
type ItemFolder string

const (
	FolderNone   ItemFolder = ""
	FolderHotel  ItemFolder = "hotel"
	FolderFlight ItemFolder = "flight"
)

// RawItem is one unprocessed calendar event or email message as delivered by
// an item source. Start is the event start or the message received time.
type RawItem struct {
	Subject  string
	Body     string
	Location string // calendar location field, empty for mail
	Start    time.Time
	End      time.Time
	HasEnd   bool
	Folder   ItemFolder
	Source   BookingSource
}

// CombinedText joins subject, body and location into the single blob the
// classifier and extractors operate on.
func (i *RawItem) CombinedText() string {
	text := i.Subject
	if i.Body != "" {
		text += "\n" + i.Body
	}
	if i.Location != "" {
		text += "\n" + i.Location
	}
	return text
}
