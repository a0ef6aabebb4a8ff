package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alexivanou/cityshare-api/internal/apperror"
	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const maxCommentLength = 2000

var linkPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)

// ValidateComment trims content and checks it against settings, returning the text to store
func ValidateComment(content string, settings model.ModerationSettings) (string, error) {
	content = strings.TrimSpace(content)
	n := utf8.RuneCountInString(content)
	if n == 0 {
		return "", apperror.ValidationFailed("content", "comment cannot be empty")
	}
	if n > maxCommentLength {
		return "", apperror.ValidationFailed("content", fmt.Sprintf("comment must be at most %d characters", maxCommentLength))
	}
	if !settings.Enabled {
		return content, nil
	}

	lower := strings.ToLower(content)
	for _, word := range settings.ProfanityWords {
		if containsWord(lower, strings.ToLower(word)) {
			return "", apperror.ValidationFailed("content", "comment contains inappropriate language")
		}
	}
	for _, phrase := range settings.SpamIndicators {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" && strings.Contains(lower, phrase) {
			return "", apperror.ValidationFailed("content", "comment looks like spam")
		}
	}
	if links := len(linkPattern.FindAllStringIndex(content, -1)); links > settings.MaxLinks {
		return "", apperror.ValidationFailed("content", fmt.Sprintf("comment contains too many links (max %d)", settings.MaxLinks))
	}
	return content, nil
}

// containsWord reports whether word occurs in text as a whole word
func containsWord(text, word string) bool {
	word = strings.TrimSpace(word)
	if word == "" {
		return false
	}
	re, err := regexp.Compile(`(^|[^\p{L}\p{N}])` + regexp.QuoteMeta(word) + `($|[^\p{L}\p{N}])`)
	if err != nil {
		return strings.Contains(text, word)
	}
	return re.MatchString(text)
}

// GetModerationSettings returns the stored settings layered over the defaults
func (s *Service) GetModerationSettings(ctx context.Context) (model.ModerationSettings, error) {
	settings := model.DefaultModerationSettings()
	values, err := s.repos.Moderation.GetAll(ctx)
	if err != nil {
		return settings, err
	}

	targets := map[string]any{
		model.ModerationProfanityWords: &settings.ProfanityWords,
		model.ModerationSpamIndicators: &settings.SpamIndicators,
		model.ModerationMaxLinks:       &settings.MaxLinks,
		model.ModerationEnabled:        &settings.Enabled,
	}
	for key, raw := range values {
		target, ok := targets[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(raw), target); err != nil {
			s.logger.Warn("ignoring malformed moderation setting", zap.String("key", key), zap.Error(err))
		}
	}
	return settings, nil
}

// UpdateModerationSettings replaces every moderation setting
func (s *Service) UpdateModerationSettings(ctx context.Context, settings model.ModerationSettings) (model.ModerationSettings, error) {
	if settings.MaxLinks < 0 {
		return settings, apperror.ValidationFailed("maxLinks", "maxLinks must not be negative")
	}
	settings.ProfanityWords = normalizeWords(settings.ProfanityWords)
	settings.SpamIndicators = normalizeWords(settings.SpamIndicators)

	values := make(map[string]string, 4)
	for key, v := range map[string]any{
		model.ModerationProfanityWords: settings.ProfanityWords,
		model.ModerationSpamIndicators: settings.SpamIndicators,
		model.ModerationMaxLinks:       settings.MaxLinks,
		model.ModerationEnabled:        settings.Enabled,
	} {
		data, err := json.Marshal(v)
		if err != nil {
			return settings, fmt.Errorf("failed to encode moderation setting %s: %w", key, err)
		}
		values[key] = string(data)
	}
	if err := s.repos.Moderation.SetAll(ctx, values); err != nil {
		return settings, err
	}
	return settings, nil
}

func normalizeWords(words []string) []string {
	out := lo.Uniq(lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		return w, w != ""
	}))
	if out == nil {
		out = []string{}
	}
	return out
}
