package webhooks

// MetaWebhookEvent is the envelope Meta posts for leadgen subscriptions
type MetaWebhookEvent struct {
	Object string      `json:"object"`
	Entry  []MetaEntry `json:"entry"`
}

// MetaEntry represents a single entry in the webhook event
type MetaEntry struct {
	ID      string       `json:"id"`
	Time    int64        `json:"time"`
	Changes []MetaChange `json:"changes"`
}

// MetaChange represents a change notification within an entry
type MetaChange struct {
	Field string          `json:"field"`
	Value MetaLeadgenData `json:"value"`
}

// MetaLeadgenData carries the submitted form answers inline
type MetaLeadgenData struct {
	FormID      string          `json:"form_id"`
	LeadgenID   string          `json:"leadgen_id"`
	PageID      string          `json:"page_id"`
	CreatedTime int64           `json:"created_time"`
	FieldData   []MetaFieldData `json:"field_data"`
}

// MetaFieldData is one answered form field
type MetaFieldData struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// WhatsAppWebhookEvent is the envelope for WhatsApp Business messages
type WhatsAppWebhookEvent struct {
	Object string          `json:"object"`
	Entry  []WhatsAppEntry `json:"entry"`
}

// WhatsAppEntry represents a single entry in the webhook event
type WhatsAppEntry struct {
	ID      string           `json:"id"`
	Changes []WhatsAppChange `json:"changes"`
}

// WhatsAppChange represents a change notification within an entry
type WhatsAppChange struct {
	Field string        `json:"field"`
	Value WhatsAppValue `json:"value"`
}

// WhatsAppValue carries the inbound messages and sender contacts
type WhatsAppValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Metadata         WhatsAppMetadata  `json:"metadata"`
	Contacts         []WhatsAppContact `json:"contacts"`
	Messages         []WhatsAppMessage `json:"messages"`
}

// WhatsAppMetadata identifies the receiving business number
type WhatsAppMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// WhatsAppContact maps a sender's wa_id to their profile name
type WhatsAppContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

// WhatsAppMessage is a single inbound message
type WhatsAppMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      struct {
		Body string `json:"body"`
	} `json:"text"`
}
