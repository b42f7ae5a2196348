package models

import "time"

// User represents an account created on first Google sign-in.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	GoogleID  string    `bson:"googleId,omitempty" json:"googleId,omitempty"`
	Picture   string    `bson:"picture,omitempty" json:"picture,omitempty"`
	Language  string    `bson:"language" json:"language"`
	Country   string    `bson:"country" json:"country"`
	FCMToken  string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

const (
	DefaultLanguage = "es"
	DefaultCountry  = "EC"
)

// GoogleProfile is the identity extracted from a verified Google credential
// or from the OAuth userinfo endpoint.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// GoogleAuthRequest is the body of POST /api/auth/google. Credential is the
// Google ID token; the remaining fields form the legacy demo body.
type GoogleAuthRequest struct {
	Credential string `json:"credential"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GoogleID   string `json:"googleId"`
}

// AuthResponse is returned by every successful sign-in.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// ProfileUpdate is a partial update of the caller's profile.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Language *string `json:"language"`
	Country  *string `json:"country"`
	FCMToken *string `json:"fcmToken"`
}

// Fields returns the non-nil fields keyed by their stored names.
func (p ProfileUpdate) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.Phone != nil {
		out["phone"] = *p.Phone
	}
	if p.Language != nil {
		out["language"] = *p.Language
	}
	if p.Country != nil {
		out["country"] = *p.Country
	}
	if p.FCMToken != nil {
		out["fcmToken"] = *p.FCMToken
	}
	return out
}

// ApplyFields sets the stored fields produced by ProfileUpdate.Fields.
func (u *User) ApplyFields(fields map[string]interface{}) {
	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "name":
			u.Name = s
		case "phone":
			u.Phone = s
		case "language":
			u.Language = s
		case "country":
			u.Country = s
		case "fcmToken":
			u.FCMToken = s
		case "googleId":
			u.GoogleID = s
		case "picture":
			u.Picture = s
		}
	}
}
