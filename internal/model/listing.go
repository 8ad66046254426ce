package model

import "time"

// Listing represents one catalogued auction item as stored in the
// remote document collection. DocumentID is the store-assigned key;
// Title and SourceURL are captured at ingestion and never updated.
type Listing struct {
	DocumentID string    `json:"document_id" bson:"_id,omitempty"`
	DisplayID  string    `json:"display_id" bson:"display_id"`
	Title      string    `json:"title" bson:"title"`
	SourceURL  string    `json:"source_url" bson:"source_url"`
	Image      string    `json:"image" bson:"image"`   // primary image, data: URL
	Image2     string    `json:"image2" bson:"image2"` // secondary image, data: URL
	Remark     string    `json:"remark" bson:"remark"`
	Barcode    string    `json:"barcode" bson:"barcode"`
	Note       string    `json:"note" bson:"note"`
	Sold       bool      `json:"sold" bson:"sold"`
	Paid       bool      `json:"paid" bson:"paid"`
	Finished   bool      `json:"finished" bson:"finished"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Status derives the listing's workflow stage from its stored flags.
func (l *Listing) Status() Status {
	return StatusFromFlags(l.Sold, l.Paid, l.Finished)
}

// Field identifies one independently editable Listing field.
type Field string

const (
	FieldDisplayID Field = "display_id"
	FieldImage     Field = "image"
	FieldImage2    Field = "image2"
	FieldRemark    Field = "remark"
	FieldBarcode   Field = "barcode"
	FieldNote      Field = "note"
)

// annotationFields are the fields an operator can edit directly.
// Status flags go through the status cycle, display_id through the
// allocator; title and source_url have no edit path at all.
var annotationFields = map[Field]bool{
	FieldImage:   true,
	FieldImage2:  true,
	FieldRemark:  true,
	FieldBarcode: true,
	FieldNote:    true,
}

// Editable reports whether f may be written through the field-level
// auto-save path.
func (f Field) Editable() bool {
	return annotationFields[f]
}
