package echoweb

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sivitasdev/sivitas/services/api"
)

func intParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound)
	}
	return id, nil
}

// formUpload reads an optional multipart file field. A missing field is not
// an error; most upload fields on the platform are optional.
func formUpload(ctx echo.Context, field string) (*api.Upload, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening upload %q", field)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading upload %q", field)
	}
	return &api.Upload{Filename: fh.Filename, Content: content}, nil
}

// redirectBack sends the browser back to the page it submitted from, so
// form actions land the user on a refreshed view of the same page.
func redirectBack(ctx echo.Context, fallback string) error {
	if ref, err := url.Parse(ctx.Request().Referer()); err == nil &&
		strings.HasPrefix(ref.Path, "/") && !strings.HasPrefix(ref.Path, "//") {
		return ctx.Redirect(http.StatusFound, ref.RequestURI())
	}
	return ctx.Redirect(http.StatusFound, fallback)
}

func pageQuery(ctx echo.Context) int {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	return page
}

func (s *server) landingPage(ctx echo.Context) error {
	return s.render(ctx, http.StatusOK, "landing", nil)
}

func (s *server) forbiddenPage(ctx echo.Context) error {
	return s.render(ctx, http.StatusOK, "forbidden", nil)
}

func (s *server) homePage(ctx echo.Context) error {
	sess := currentSession(ctx)
	posts, err := sess.api.HomePosts(ctx.Request().Context(), pageQuery(ctx), ctx.QueryParam("q"))
	if err != nil {
		return errors.Wrap(err, "fetching home feed")
	}
	return s.render(ctx, http.StatusOK, "feed", echo.Map{
		"Title":         "Beranda",
		"ComposeAction": "/posts",
		"Posts":         posts.Posts,
		"Pagination":    posts.Pagination,
		"Search":        ctx.QueryParam("q"),
	})
}

func (s *server) createHomePost(ctx echo.Context) error {
	in := api.PostInput{Content: ctx.FormValue("content")}
	if err := s.deps.Validate.Struct(in); err != nil {
		return err
	}
	image, err := formUpload(ctx, "image")
	if err != nil {
		return err
	}
	in.Image = image
	if _, err := currentSession(ctx).api.CreateHomePost(ctx.Request().Context(), in); err != nil {
		return errors.Wrap(err, "creating post")
	}
	return redirectBack(ctx, pathHome)
}

func (s *server) postPage(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	sess := currentSession(ctx)
	reqCtx := ctx.Request().Context()

	post, err := sess.api.Post(reqCtx, id)
	if err != nil {
		return errors.Wrap(err, "fetching post")
	}
	comments, err := sess.api.Comments(reqCtx, id)
	if err != nil {
		return errors.Wrap(err, "fetching comments")
	}

	// ?comment=<id> expands one comment's reply thread
	var replies []api.Comment
	if raw := ctx.QueryParam("comment"); raw != "" {
		commentID, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		if replies, err = sess.api.Replies(reqCtx, commentID); err != nil {
			return errors.Wrap(err, "fetching replies")
		}
	}

	return s.render(ctx, http.StatusOK, "post", echo.Map{
		"Post":     post,
		"Comments": comments,
		"Expanded": ctx.QueryParam("comment"),
		"Replies":  replies,
	})
}

func (s *server) updatePost(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	in := api.PostInput{Content: ctx.FormValue("content")}
	if err := s.deps.Validate.Struct(in); err != nil {
		return err
	}
	image, err := formUpload(ctx, "image")
	if err != nil {
		return err
	}
	in.Image = image
	if _, err := currentSession(ctx).api.UpdatePost(ctx.Request().Context(), id, in); err != nil {
		return errors.Wrap(err, "updating post")
	}
	return ctx.Redirect(http.StatusFound, "/post/"+strconv.Itoa(id))
}

func (s *server) likePost(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := currentSession(ctx).api.LikePost(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "liking post")
	}
	return redirectBack(ctx, pathHome)
}

func (s *server) togglePostPin(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := currentSession(ctx).api.TogglePostPin(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "toggling post pin")
	}
	return redirectBack(ctx, pathHome)
}

func (s *server) deletePost(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := currentSession(ctx).api.DeletePost(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting post")
	}
	return ctx.Redirect(http.StatusFound, pathHome)
}

func (s *server) createComment(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	body := ctx.FormValue("body")
	if body == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "komentar tidak boleh kosong")
	}
	if _, err := currentSession(ctx).api.CreateComment(ctx.Request().Context(), id, body); err != nil {
		return errors.Wrap(err, "creating comment")
	}
	return redirectBack(ctx, "/post/"+strconv.Itoa(id))
}

func (s *server) replyComment(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	body := ctx.FormValue("body")
	if body == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "komentar tidak boleh kosong")
	}
	if _, err := currentSession(ctx).api.ReplyComment(ctx.Request().Context(), id, body); err != nil {
		return errors.Wrap(err, "replying to comment")
	}
	return redirectBack(ctx, pathHome)
}

func (s *server) deleteComment(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := currentSession(ctx).api.DeleteComment(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting comment")
	}
	return redirectBack(ctx, pathHome)
}
