package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/AFARIMINTAH/Safehaven/internal/model"
	"github.com/AFARIMINTAH/Safehaven/internal/persona"
	"github.com/AFARIMINTAH/Safehaven/internal/validate"
)

// OneShotCompleter answers a single prompt without session state.
type OneShotCompleter interface {
	Complete(ctx context.Context, message string) (string, error)
}

var (
	nameRx  = regexp.MustCompile(`(?i)\bname[*_]*\s*[:\-][*_\s]*([^,\n]+)`)
	emailRx = regexp.MustCompile(`(?i)\bemail[*_]*\s*[:\-][*_\s]*([^,\s]+)`)
	phoneRx = regexp.MustCompile(`(?i)\bphone[*_]*\s*[:\-][*_\s]*([^,\n]+)`)
)

// ReferralService recommends a counselor from the persona directory.
type ReferralService struct {
	persona   *persona.Persona
	completer OneShotCompleter
}

func NewReferralService(p *persona.Persona, c OneShotCompleter) *ReferralService {
	return &ReferralService{persona: p, completer: c}
}

// Counselors returns the configured directory.
func (s *ReferralService) Counselors() []model.Counselor {
	return append([]model.Counselor(nil), s.persona.Counselors...)
}

// Refer asks the completion API to pick the best counselor for the stated reason.
// A reply naming a directory entry returns that entry with Matched set.
func (s *ReferralService) Refer(ctx context.Context, req model.ReferralRequest) (*model.Referral, error) {
	if err := validate.NonEmpty("name", req.Name); err != nil {
		return nil, err
	}
	if err := validate.Email(validate.NormalizeEmail(req.Email)); err != nil {
		return nil, err
	}
	if err := validate.NonEmpty("reason", req.Reason); err != nil {
		return nil, err
	}
	if len(s.persona.Counselors) == 0 {
		return nil, model.NewNotFoundError("counselor", "no counselors configured")
	}

	reply, err := s.completer.Complete(ctx, s.prompt(req))
	if err != nil {
		return nil, err
	}

	parsed := parseCounselor(reply)
	if c, ok := s.persona.FindCounselor(parsed.Name); ok {
		return &model.Referral{Counselor: c, Matched: true, Response: reply}, nil
	}
	if parsed.Name == "" {
		parsed.Name = "Unknown"
	}
	return &model.Referral{Counselor: parsed, Matched: false, Response: reply}, nil
}

func (s *ReferralService) prompt(req model.ReferralRequest) string {
	entries := make([]string, 0, len(s.persona.Counselors))
	for _, c := range s.persona.Counselors {
		entries = append(entries, fmt.Sprintf("%s (%s)", c.Name, strings.Join(c.Expertise, ", ")))
	}
	return fmt.Sprintf(
		"A user named %s needs a counselor. Reason: %q.\n"+
			"From this list of counselors, suggest the best match and provide only: Name, Email, Phone. List: %s.\n"+
			"Respond strictly with the counselor's contact info in text format like:\nName: ..., Email: ..., Phone: ...",
		strings.TrimSpace(req.Name), strings.TrimSpace(req.Reason), strings.Join(entries, "; "))
}

func parseCounselor(reply string) model.Counselor {
	var c model.Counselor
	if m := nameRx.FindStringSubmatch(reply); m != nil {
		c.Name = cleanField(m[1])
	}
	if m := emailRx.FindStringSubmatch(reply); m != nil {
		c.Email = cleanField(m[1])
	}
	if m := phoneRx.FindStringSubmatch(reply); m != nil {
		c.Phone = cleanField(m[1])
	}
	return c
}

func cleanField(s string) string {
	return strings.Trim(s, " \t*_`\"'")
}
