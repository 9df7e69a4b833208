package domain

// QuoteRequest is a freight-quote submission from the public contact form.
// It is never persisted: it lives for the duration of one request.
//
// The validate tags are read by the application layer; every field is
// required and whitespace-only values count as missing.
type QuoteRequest struct {
	CompanyName string `json:"companyName" validate:"notblank"`
	ContactName string `json:"contactName" validate:"notblank"`
	Email       string `json:"email"       validate:"notblank"`
	Phone       string `json:"phone"       validate:"notblank"`
	ServiceType string `json:"serviceType" validate:"notblank"`
	Origin      string `json:"origin"      validate:"notblank"`
	Destination string `json:"destination" validate:"notblank"`
	Details     string `json:"details"     validate:"notblank"`
}

// Sender identifies who a notification is sent from.
type Sender struct {
	Name    string
	Address string
}

// String formats the sender as an RFC 5322 address.
func (s Sender) String() string {
	if s.Name == "" {
		return s.Address
	}

	return s.Name + " <" + s.Address + ">"
}

// Notification is the email derived from a QuoteRequest.
type Notification struct {
	To      string
	From    Sender
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Receipt is returned when the email provider accepts a notification.
type Receipt struct {
	// MessageID is the provider-assigned identifier.
	MessageID string
}
