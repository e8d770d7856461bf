package usecase

import (
	"regexp"
	"strings"

	"residency-sync/internal/domain/entity"
	"residency-sync/pkg/logger"
)

// Classification is the outcome of deciding what a raw item describes. An
// item may be both a flight and a hotel (round-trip mails often are); an
// item matching neither signal and carrying no folder label is dropped.
type Classification struct {
	Flight  bool
	Hotel   bool
	Discard bool
}

// Classifier decides whether a raw item describes a flight, a hotel stay,
// neither, or should be discarded outright. Kept behind an interface so the
// keyword heuristics can be swapped without touching the merge engine.
type Classifier interface {
	Classify(item *entity.RawItem, flights []string) Classification
}

// Carriers whose code+digits pattern counts as a flight signal on its own.
var carrierCodes = []string{
	"BA", "LH", "AF", "KL", "IB", "AZ", "FR", "U2", "W6",
	"EK", "QR", "TK", "LX", "SK", "AY", "VY", "EI", "TP",
}

var (
	carRentalRe     = regexp.MustCompile(`(?is)\b(?:car\s+rental|rental\s+car|car\s+hire|hire\s+car|hertz|avis|europcar|sixt|enterprise\s+rent|budget\s+rent|vehicle\s+collect)\b|(?is)\bpick[\s-]?up\b.*\bdrop[\s-]?off\b`)
	flightKeywordRe = regexp.MustCompile(`(?i)\b(?:flight|fly|flying|depart(?:ure)?|arriv(?:e|al|ing)|airport|boarding)\b`)
	hotelKeywordRe  = regexp.MustCompile(`(?i)\b(?:hotel|check[\s-]?in|check[\s-]?out|booking|reservation|stay|accommodation|airbnb|nights?)\b`)
	carrierRe       = regexp.MustCompile(`\b(?:` + strings.Join(carrierCodes, "|") + `)\s?\d{1,4}\b`)
)

// KeywordClassifier is the regex-backed Classifier implementation.
type KeywordClassifier struct {
	logger logger.Logger
}

// NewKeywordClassifier creates the default keyword classifier.
func NewKeywordClassifier(logger logger.Logger) *KeywordClassifier {
	return &KeywordClassifier{logger: logger}
}

// Classify applies the exclusion vocabulary first, then the flight and hotel
// signals. flights are the designators already extracted from the item text;
// in a mail-folder context their presence alone is a flight signal.
func (c *KeywordClassifier) Classify(item *entity.RawItem, flights []string) Classification {
	text := item.CombinedText()

	if carRentalRe.MatchString(text) {
		c.logger.Debug("Discarding car rental item", "subject", item.Subject)
		return Classification{Discard: true}
	}

	var cls Classification

	cls.Flight = flightKeywordRe.MatchString(text) ||
		carrierRe.MatchString(strings.ToUpper(text)) ||
		item.Folder == entity.FolderFlight ||
		(item.Source == entity.SourceEmail && item.Folder != entity.FolderNone && len(flights) > 0)

	cls.Hotel = hotelKeywordRe.MatchString(text) ||
		item.Folder == entity.FolderHotel

	if !cls.Flight && !cls.Hotel {
		cls.Discard = true
	}
	return cls
}
