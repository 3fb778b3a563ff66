package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"library-backend/internal/shared/utils"
)

// Member là người được mượn sách
// UniversityID là mã sinh viên / cán bộ, unique khi khác NULL
type Member struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	UniversityID *string   `json:"university_id,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{3,14}$`)

type MemberRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	UniversityID *string `json:"university_id"`
	Phone        *string `json:"phone"`
}

func (r MemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required.Error("email is required"), is.Email, validation.Length(1, 100)),
		validation.Field(&r.UniversityID, validation.Length(0, 50)),
		validation.Field(&r.Phone, validation.Length(0, 15), validation.Match(phonePattern).Error("phone must contain only digits, optionally prefixed with +")),
	)
}

// Normalize trim text, university_id / phone rỗng -> nil
func (r MemberRequest) Normalize() MemberRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.UniversityID = utils.NullIfBlank(r.UniversityID)
	r.Phone = utils.NullIfBlank(r.Phone)
	return r
}

func (r MemberRequest) ToMember() *Member {
	return &Member{
		Name:         r.Name,
		Email:        r.Email,
		UniversityID: r.UniversityID,
		Phone:        r.Phone,
	}
}

// ListFilter - filter cho GET /members
type ListFilter struct {
	Search string // name, email hoặc university_id
	Limit  int
	Offset int
}
