package services

import (
	"context"
	"testing"

	"reeltalk/app/models"
	"reeltalk/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPostForm() models.PostForm {
	return models.PostForm{Title: "Duna", Review: "Visualmente incrível", Rating: "9"}
}

func TestPostServiceCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("signed in author", func(t *testing.T) {
		post, err := f.postService.CreatePost(ctx, validPostForm(), models.Actor{UserID: ptr(3)})
		require.NoError(t, err)
		require.NotNil(t, post.AuthorID)
		assert.Equal(t, int64(3), *post.AuthorID)
		assert.Equal(t, 9, post.Rating)
	})

	t.Run("anonymous author", func(t *testing.T) {
		post, err := f.postService.CreatePost(ctx, validPostForm(), models.Actor{})
		require.NoError(t, err)
		assert.Nil(t, post.AuthorID)
	})

	t.Run("exactly one row per create", func(t *testing.T) {
		before, err := f.postService.ListPosts(ctx)
		require.NoError(t, err)

		_, err = f.postService.CreatePost(ctx, validPostForm(), models.Actor{})
		require.NoError(t, err)

		after, err := f.postService.ListPosts(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before)+1)
	})

	t.Run("author whose account is gone", func(t *testing.T) {
		svc := NewPostService(orphanPosts{f.posts}, f.comments)

		_, err := svc.CreatePost(ctx, validPostForm(), models.Actor{UserID: ptr(42)})
		assert.ErrorIs(t, err, ErrUnknownAuthor)

		_, err = svc.CreatePost(ctx, validPostForm(), models.Actor{})
		assert.ErrorIs(t, err, repositories.ErrMissingReference)
	})

	t.Run("invalid rating inserts nothing", func(t *testing.T) {
		before, _ := f.postService.ListPosts(ctx)

		form := validPostForm()
		form.Rating = "nove"
		_, err := f.postService.CreatePost(ctx, form, models.Actor{})

		var errs models.FieldErrors
		require.ErrorAs(t, err, &errs)
		assert.True(t, errs.Has("nota"))

		after, _ := f.postService.ListPosts(ctx)
		assert.Len(t, after, len(before))
	})
}

func TestPostServiceGetPost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	post, err := f.postService.CreatePost(ctx, validPostForm(), models.Actor{})
	require.NoError(t, err)
	_, err = f.commentService.CreateComment(ctx, post.ID, models.CommentForm{Content: "Primeiro"}, models.Actor{})
	require.NoError(t, err)
	_, err = f.commentService.CreateComment(ctx, post.ID, models.CommentForm{Content: "Segundo"}, models.Actor{})
	require.NoError(t, err)

	found, err := f.postService.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, found.Comments, 2)
	assert.Equal(t, "Primeiro", found.Comments[0].Content)
	assert.Equal(t, "Segundo", found.Comments[1].Content)
	for _, c := range found.Comments {
		assert.Equal(t, post.ID, c.PostID)
	}

	_, err = f.postService.GetPost(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostServiceDelete(t *testing.T) {
	owner := models.Actor{UserID: ptr(1)}
	other := models.Actor{UserID: ptr(2)}
	admin := models.Actor{UserID: ptr(3), IsAdmin: true}
	anon := models.Actor{}

	tests := []struct {
		name    string
		author  models.Actor
		actor   models.Actor
		wantErr error
	}{
		{"owner deletes", owner, owner, nil},
		{"admin deletes someone else's post", owner, admin, nil},
		{"other user is refused", owner, other, ErrNotAuthorized},
		{"anonymous visitor is refused", owner, anon, ErrNotAuthorized},
		{"anonymous visitor cannot delete an anonymous post", anon, anon, ErrNotAuthorized},
		{"admin deletes an anonymous post", anon, admin, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()

			post, err := f.postService.CreatePost(ctx, validPostForm(), tt.author)
			require.NoError(t, err)
			_, err = f.commentService.CreateComment(ctx, post.ID, models.CommentForm{Content: "Oi"}, models.Actor{})
			require.NoError(t, err)

			err = f.postService.DeletePost(ctx, post.ID, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				_, err := f.postService.GetPost(ctx, post.ID)
				assert.NoError(t, err, "refused delete must leave the post")
				assert.Equal(t, 1, f.comments.Count())
				return
			}
			require.NoError(t, err)
			_, err = f.postService.GetPost(ctx, post.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.Zero(t, f.comments.Count(), "comments go with the post")
		})
	}

	t.Run("missing post", func(t *testing.T) {
		f := newFixture()
		err := f.postService.DeletePost(context.Background(), 42, admin)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
