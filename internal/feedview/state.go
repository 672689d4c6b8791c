package feedview

import (
	"time"

	"backend-memepool/internal/feed"
	"backend-memepool/internal/like"
	"backend-memepool/internal/meme"
)

// Post is the client-side view of one feed item. Pending marks an in-flight
// like toggle; while set, further clicks on the post are ignored.
type Post struct {
	ID        string
	OwnerID   string
	Username  string
	Caption   string
	ImageURLs []string
	CreatedAt time.Time
	Liked     bool
	Likes     int
	Pending   bool
}

type State struct {
	Posts   []Post
	Cursor  string
	HasMore bool
}

func postFromMeme(m meme.Meme) Post {
	return Post{
		ID:        m.ID,
		OwnerID:   m.UserID,
		Username:  m.Username,
		Caption:   m.Caption,
		ImageURLs: m.ImageURLs,
		CreatedAt: m.CreatedAt,
		Liked:     m.LikedByViewer,
		Likes:     m.Likes,
	}
}

// The reducers below are pure: they return a new State and never mutate the
// input's post slice, so snapshots handed to renderers stay stable.

func withPosts(st State, posts []Post) State {
	st.Posts = posts
	return st
}

func reducePage(st State, page feed.Page, replace bool) State {
	var posts []Post
	if !replace {
		posts = append(posts, st.Posts...)
	}
	for _, m := range page.Memes {
		posts = append(posts, postFromMeme(m))
	}
	st = withPosts(st, posts)
	st.Cursor = page.NextCursor
	st.HasMore = page.HasMore
	return st
}

func reducePredict(st State, postID string) State {
	posts := make([]Post, len(st.Posts))
	copy(posts, st.Posts)
	for i := range posts {
		if posts[i].ID != postID {
			continue
		}
		if posts[i].Liked {
			posts[i].Liked = false
			posts[i].Likes--
		} else {
			posts[i].Liked = true
			posts[i].Likes++
		}
		posts[i].Pending = true
	}
	return withPosts(st, posts)
}

// reduceReconcile overwrites the predicted state with server truth. The count
// in particular is never kept from the prediction: another viewer may have
// toggled in between.
func reduceReconcile(st State, postID string, res like.Result) State {
	posts := make([]Post, len(st.Posts))
	copy(posts, st.Posts)
	for i := range posts {
		if posts[i].ID == postID {
			posts[i].Liked = res.Liked
			posts[i].Likes = res.Count
			posts[i].Pending = false
		}
	}
	return withPosts(st, posts)
}

func reduceRollback(st State, postID string, liked bool, likes int) State {
	posts := make([]Post, len(st.Posts))
	copy(posts, st.Posts)
	for i := range posts {
		if posts[i].ID == postID {
			posts[i].Liked = liked
			posts[i].Likes = likes
			posts[i].Pending = false
		}
	}
	return withPosts(st, posts)
}

func reduceNewPost(st State, p Post) State {
	posts := make([]Post, 0, len(st.Posts)+1)
	posts = append(posts, p)
	posts = append(posts, st.Posts...)
	return withPosts(st, posts)
}

func reduceRemovePost(st State, postID string) State {
	posts := make([]Post, 0, len(st.Posts))
	for _, p := range st.Posts {
		if p.ID != postID {
			posts = append(posts, p)
		}
	}
	return withPosts(st, posts)
}
