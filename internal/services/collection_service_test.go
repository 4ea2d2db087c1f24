package services

import (
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/utils"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CollectionServiceSuite struct {
	suite.Suite
	owner *models.User
	other *models.User
}

func (s *CollectionServiceSuite) SetupTest() {
	setupTestDB(s.T())
	s.owner = createUser(s.T(), "owner", models.RoleUser)
	s.other = createUser(s.T(), "other", models.RoleUser)
}

func TestCollectionServiceSuite(t *testing.T) {
	suite.Run(t, new(CollectionServiceSuite))
}

func (s *CollectionServiceSuite) TestCreateRejectsBlankName() {
	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := CreateCollection(s.owner.ID, name, "desc", false)
		s.ErrorIs(err, ErrCollectionNameRequired)
	}

	_, err := CreateCollection(s.owner.ID, strings.Repeat("x", 101), "", false)
	var vErr *utils.ValidationError
	s.True(errors.As(err, &vErr))

	c, err := CreateCollection(s.owner.ID, "  My Favorite Agents ", " agents I use ", true)
	s.Require().NoError(err)
	s.Equal("My Favorite Agents", c.Name)
	s.Equal("my-favorite-agents", c.Slug)
	s.Equal("agents I use", c.Description)
	s.True(c.IsPublic)
}

func (s *CollectionServiceSuite) TestItemsLifecycle() {
	c, err := CreateCollection(s.owner.ID, "Reading list", "", false)
	s.Require().NoError(err)
	p1 := createPrompt(s.T(), "First", models.ContentStatusApproved, nil)
	p2 := createPrompt(s.T(), "Second", models.ContentStatusApproved, nil)
	ownDraft := createPrompt(s.T(), "Own draft", models.ContentStatusPending, s.owner)
	foreignDraft := createPrompt(s.T(), "Foreign draft", models.ContentStatusPending, s.other)

	item1, err := AddCollectionItem(c.ID, s.owner.ID, models.ContentTypePrompt, p1.ID, "start here")
	s.Require().NoError(err)
	s.Equal(0, item1.Position)
	item2, err := AddCollectionItem(c.ID, s.owner.ID, models.ContentTypePrompt, p2.ID, "")
	s.Require().NoError(err)
	s.Equal(1, item2.Position)
	_, err = AddCollectionItem(c.ID, s.owner.ID, models.ContentTypePrompt, ownDraft.ID, "")
	s.NoError(err)

	_, err = AddCollectionItem(c.ID, s.owner.ID, models.ContentTypePrompt, p1.ID, "")
	s.ErrorIs(err, ErrItemAlreadyInCollection)
	_, err = AddCollectionItem(c.ID, s.owner.ID, models.ContentTypePrompt, foreignDraft.ID, "")
	s.ErrorIs(err, ErrContentNotFound)
	_, err = AddCollectionItem(c.ID, s.owner.ID, models.ContentTypePrompt, 9999, "")
	s.ErrorIs(err, ErrContentNotFound)
	_, err = AddCollectionItem(c.ID, s.other.ID, models.ContentTypePrompt, p2.ID, "")
	s.ErrorIs(err, ErrCollectionNotFound)

	got, err := GetCollection(c.ID, s.owner)
	s.Require().NoError(err)
	s.Require().Len(got.Items, 3)
	s.Equal("First", got.Items[0].Item.Base().Title)
	s.Equal("start here", got.Items[0].Note)
	s.Equal("Own draft", got.Items[2].Item.Base().Title)

	s.Require().NoError(RemoveCollectionItem(c.ID, s.owner.ID, item1.ID))
	s.ErrorIs(RemoveCollectionItem(c.ID, s.owner.ID, item1.ID), ErrCollectionItemNotFound)

	page, err := ListCollections(s.owner.ID, 0, 10)
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal(2, page.Items[0].ItemCount)
}

func (s *CollectionServiceSuite) TestVisibility() {
	private, err := CreateCollection(s.owner.ID, "Private", "", false)
	s.Require().NoError(err)
	public, err := CreateCollection(s.owner.ID, "Public picks", "", true)
	s.Require().NoError(err)
	draft := createPrompt(s.T(), "Draft", models.ContentStatusPending, s.owner)
	_, err = AddCollectionItem(public.ID, s.owner.ID, models.ContentTypePrompt, draft.ID, "")
	s.Require().NoError(err)

	_, err = GetCollection(private.ID, s.other)
	s.ErrorIs(err, ErrCollectionNotFound)
	_, err = GetCollection(private.ID, nil)
	s.ErrorIs(err, ErrCollectionNotFound)

	got, err := GetCollection(public.ID, nil)
	s.Require().NoError(err)
	s.Empty(got.Items, "drafts are hidden from other viewers")
	s.Equal("owner", got.User.Login)

	got, err = GetCollection(public.ID, s.owner)
	s.Require().NoError(err)
	s.Len(got.Items, 1)

	page, err := ListPublicCollections(0, 10, "")
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal("Public picks", page.Items[0].Name)

	page, err = ListPublicCollections(0, 10, "nothing like this")
	s.Require().NoError(err)
	s.Empty(page.Items)
}

func (s *CollectionServiceSuite) TestUpdateAndDeleteOwnerOnly() {
	c, err := CreateCollection(s.owner.ID, "Mine", "", true)
	s.Require().NoError(err)

	name := "Hijacked"
	_, err = UpdateCollection(c.ID, s.other.ID, CollectionUpdate{Name: &name})
	s.ErrorIs(err, ErrPermissionDenied)
	s.ErrorIs(DeleteCollection(c.ID, s.other.ID), ErrPermissionDenied)

	blank := " "
	_, err = UpdateCollection(c.ID, s.owner.ID, CollectionUpdate{Name: &blank})
	s.ErrorIs(err, ErrCollectionNameRequired)

	newName, private := "Renamed", false
	updated, err := UpdateCollection(c.ID, s.owner.ID, CollectionUpdate{Name: &newName, IsPublic: &private})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Name)
	s.Equal("renamed", updated.Slug)
	s.False(updated.IsPublic)

	s.Require().NoError(DeleteCollection(c.ID, s.owner.ID))
	_, err = GetCollection(c.ID, s.owner)
	s.ErrorIs(err, ErrCollectionNotFound)
}

func TestCollectionNameRequiredWithoutSuite(t *testing.T) {
	setupTestDB(t)
	_, err := CreateCollection(1, "", "", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCollectionNameRequired)
}
