package service

import (
	"strings"
	"testing"

	"github.com/alexivanou/cityshare-api/internal/apperror"
	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_ToggleLike_InvalidatesCommunityStats(t *testing.T) {
	svc, m := newTestService(t)

	m.city.On("CommunityStats", mock.Anything).Return(&model.CommunityStats{TotalLikes: 0}, nil).Once()
	m.city.On("CommunityStats", mock.Anything).Return(&model.CommunityStats{TotalLikes: 1}, nil).Once()
	m.social.On("ToggleLike", mock.Anything, int64(1), int64(7)).Return(model.ToggleResult{Active: true, Count: 1}, nil).Once()

	stats, err := svc.GetCommunityStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalLikes)

	stats, err = svc.GetCommunityStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalLikes, "second read is cached")

	res, err := svc.ToggleLike(ctx, 1, 7)
	require.NoError(t, err)
	assert.True(t, res.Active)

	stats, err = svc.GetCommunityStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalLikes)
	m.assertExpectations(t)
}

func TestService_ToggleFollow(t *testing.T) {
	svc, m := newTestService(t)

	_, err := svc.ToggleFollow(ctx, 3, 3)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	m.social.On("ToggleFollow", mock.Anything, int64(3), int64(4)).Return(model.ToggleResult{Active: true, Count: 1}, nil)
	res, err := svc.ToggleFollow(ctx, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, model.ToggleResult{Active: true, Count: 1}, res)
	m.assertExpectations(t)
}

func TestService_AddComment(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		stored        map[string]string
		expectCreate  string
		expectedError error
	}{
		{
			name:         "trimmed and stored",
			content:      "  lovely harbour  ",
			stored:       map[string]string{},
			expectCreate: "lovely harbour",
		},
		{
			name:          "spam rejected by default settings",
			content:       "Click HERE for coins",
			stored:        map[string]string{},
			expectedError: apperror.ErrValidation,
		},
		{
			name:          "stored profanity list applies",
			content:       "what a Darn mess",
			stored:        map[string]string{model.ModerationProfanityWords: `["darn"]`},
			expectedError: apperror.ErrValidation,
		},
		{
			name:         "moderation disabled",
			content:      "click here http://a.io http://b.io http://c.io",
			stored:       map[string]string{model.ModerationEnabled: `false`},
			expectCreate: "click here http://a.io http://b.io http://c.io",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			m.moderation.On("GetAll", mock.Anything).Return(tt.stored, nil)
			if tt.expectCreate != "" {
				m.comment.On("Create", mock.Anything, int64(7), int64(1), tt.expectCreate).
					Return(&model.Comment{ID: 1, CityID: 7, UserID: 1, Content: tt.expectCreate}, nil)
			}

			c, err := svc.AddComment(ctx, 1, 7, tt.content)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				m.comment.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectCreate, c.Content)
			m.assertExpectations(t)
		})
	}
}

func TestService_AddComment_InvalidatesComments(t *testing.T) {
	svc, m := newTestService(t)

	m.city.On("GetByID", mock.Anything, int64(7)).Return(&model.City{ID: 7}, nil)
	m.comment.On("ListByCity", mock.Anything, int64(7)).Return(nil, nil).Once()
	m.comment.On("ListByCity", mock.Anything, int64(7)).Return([]model.CommentView{{Comment: model.Comment{ID: 1}}}, nil).Once()
	m.moderation.On("GetAll", mock.Anything).Return(map[string]string{}, nil)
	m.comment.On("Create", mock.Anything, int64(7), int64(1), "nice").Return(&model.Comment{ID: 1, CityID: 7}, nil)

	list, err := svc.ListComments(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.AddComment(ctx, 1, 7, "nice")
	require.NoError(t, err)

	list, err = svc.ListComments(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	m.assertExpectations(t)
}

func TestService_DeleteOwnComment(t *testing.T) {
	svc, m := newTestService(t)

	m.comment.On("GetByID", mock.Anything, int64(5)).Return(&model.Comment{ID: 5, CityID: 7, UserID: 1}, nil)

	err := svc.DeleteOwnComment(ctx, 2, 5)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	m.comment.On("Delete", mock.Anything, int64(5)).Return(nil)
	require.NoError(t, svc.DeleteOwnComment(ctx, 1, 5))
	m.assertExpectations(t)
}

func TestValidateComment(t *testing.T) {
	settings := model.ModerationSettings{
		ProfanityWords: []string{"heck"},
		SpamIndicators: []string{"buy now"},
		MaxLinks:       1,
		Enabled:        true,
	}

	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{name: "plain", content: "great layout", want: "great layout"},
		{name: "trimmed", content: "\n great \t", want: "great"},
		{name: "empty", content: "   ", wantErr: true},
		{name: "too long", content: strings.Repeat("a", 2001), wantErr: true},
		{name: "profanity whole word", content: "what the HECK", wantErr: true},
		{name: "profanity inside another word is fine", content: "checked the heckler", want: "checked the heckler"},
		{name: "spam phrase", content: "Buy Now cheap", wantErr: true},
		{name: "one link allowed", content: "see https://example.com", want: "see https://example.com"},
		{name: "too many links", content: "https://a.io and www.b.io", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateComment(tt.content, settings)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_ModerationSettings(t *testing.T) {
	svc, m := newTestService(t)

	m.moderation.On("GetAll", mock.Anything).Return(map[string]string{
		model.ModerationMaxLinks: `5`,
		model.ModerationEnabled:  `not-json`,
		"unknown":                `1`,
	}, nil)

	got, err := svc.GetModerationSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, got.MaxLinks)
	assert.True(t, got.Enabled, "malformed value keeps the default")
	assert.Equal(t, model.DefaultModerationSettings().SpamIndicators, got.SpamIndicators)

	_, err = svc.UpdateModerationSettings(ctx, model.ModerationSettings{MaxLinks: -1})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	m.moderation.On("SetAll", mock.Anything, map[string]string{
		model.ModerationProfanityWords: `["darn"]`,
		model.ModerationSpamIndicators: `[]`,
		model.ModerationMaxLinks:       `0`,
		model.ModerationEnabled:        `true`,
	}).Return(nil)

	saved, err := svc.UpdateModerationSettings(ctx, model.ModerationSettings{
		ProfanityWords: []string{" Darn ", "darn", ""},
		Enabled:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"darn"}, saved.ProfanityWords)
	m.assertExpectations(t)
}
