package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[^@\s]+\.[^@\s]{2,}$`)
	idnaProfile  = idna.Lookup
)

const defaultPhoneRegion = "PL"

// ContactNormalizer canonicalises the emails and phone numbers stored for
// users and trainers.
type ContactNormalizer struct {
	DefaultRegion string
}

// NewContactNormalizer builds a normaliser parsing national numbers in region.
func NewContactNormalizer(region string) *ContactNormalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ContactNormalizer{DefaultRegion: region}
}

// Email lower-cases the address and converts its domain to ASCII.
func (n *ContactNormalizer) Email(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, raw)
	}
	local, domain, _ := strings.Cut(email, "@")
	if !isDomainValid(domain) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, raw)
	}
	ascii, err := idnaProfile.ToASCII(domain)
	if err != nil || ascii == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, raw)
	}
	return local + "@" + ascii, nil
}

// Phone returns the E.164 form of raw. A nil or blank input yields nil.
func (n *ContactNormalizer) Phone(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	number, err := phonenumbers.Parse(strings.TrimSpace(*raw), n.DefaultRegion)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhone, *raw)
	}
	formatted := phonenumbers.Format(number, phonenumbers.E164)
	return &formatted, nil
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
