package models

import "time"

// EmergencyContact is someone alerted when the user triggers an emergency.
type EmergencyContact struct {
	ID              string    `bson:"id" json:"id"`
	UserID          string    `bson:"userId" json:"userId"`
	Name            string    `bson:"name" json:"name"`
	Phone           string    `bson:"phone" json:"phone"`
	Email           string    `bson:"email,omitempty" json:"email,omitempty"`
	Relationship    string    `bson:"relationship" json:"relationship"`
	WhatsAppEnabled bool      `bson:"whatsappEnabled" json:"whatsappEnabled"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// ContactInput is the body of POST /api/emergency-contacts.
type ContactInput struct {
	Name            string `json:"name" binding:"required,min=1"`
	Phone           string `json:"phone" binding:"required,min=1"`
	Email           string `json:"email" binding:"omitempty,email"`
	Relationship    string `json:"relationship" binding:"required,min=1"`
	WhatsAppEnabled *bool  `json:"whatsappEnabled"`
}

// ContactUpdate is the body of PUT /api/emergency-contacts/:id.
type ContactUpdate struct {
	Name            *string `json:"name" binding:"omitempty,min=1"`
	Phone           *string `json:"phone" binding:"omitempty,min=1"`
	Email           *string `json:"email" binding:"omitempty,email"`
	Relationship    *string `json:"relationship" binding:"omitempty,min=1"`
	WhatsAppEnabled *bool   `json:"whatsappEnabled"`
}

// Fields returns the non-nil fields keyed by their stored names.
func (u ContactUpdate) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	if u.Name != nil {
		out["name"] = *u.Name
	}
	if u.Phone != nil {
		out["phone"] = *u.Phone
	}
	if u.Email != nil {
		out["email"] = *u.Email
	}
	if u.Relationship != nil {
		out["relationship"] = *u.Relationship
	}
	if u.WhatsAppEnabled != nil {
		out["whatsappEnabled"] = *u.WhatsAppEnabled
	}
	return out
}

// ApplyFields sets the stored fields produced by ContactUpdate.Fields.
func (c *EmergencyContact) ApplyFields(fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "name":
			c.Name, _ = v.(string)
		case "phone":
			c.Phone, _ = v.(string)
		case "email":
			c.Email, _ = v.(string)
		case "relationship":
			c.Relationship, _ = v.(string)
		case "whatsappEnabled":
			c.WhatsAppEnabled, _ = v.(bool)
		}
	}
}
