// Package stats computes summary statistics over a materialized blog list.
// Every function is pure and deterministic; callers must snapshot the
// collection before aggregating, nothing here tolerates concurrent mutation.
package stats

import (
	"errors"

	"github.com/avolkov/bloglist/internal/blog/domain"
)

// ErrNoBlogs is returned by FavoriteBlog on an empty input: there is no
// entry to select.
var ErrNoBlogs = errors.New("no blogs to aggregate")

// Favorite is the projection of the most-liked blog.
type Favorite struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// AuthorCount names the author with the most blogs. An empty Author with
// zero Blogs is the degenerate result for empty input.
type AuthorCount struct {
	Author string `json:"author,omitempty"`
	Blogs  int    `json:"blogs"`
}

// AuthorLikes names the author with the highest like total.
type AuthorLikes struct {
	Author string `json:"author,omitempty"`
	Likes  int    `json:"likes"`
}

// TotalLikes sums the likes of every blog. Zero for an empty input.
func TotalLikes(blogs []domain.Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}
	return total
}

// FavoriteBlog returns the blog with the maximum likes. The first blog in
// input order reaching the maximum wins; ties are not reported.
func FavoriteBlog(blogs []domain.Blog) (Favorite, error) {
	if len(blogs) == 0 {
		return Favorite{}, ErrNoBlogs
	}

	best := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes > best.Likes {
			best = b
		}
	}

	return Favorite{Title: best.Title, Author: best.Author, Likes: best.Likes}, nil
}

// MostBlogs returns the author with the most entries. Authors are grouped by
// exact string match, visited in first-occurrence order, and a candidate must
// strictly exceed the running maximum to win, so the earliest author keeps
// ties. Empty input yields the zero-count sentinel.
func MostBlogs(blogs []domain.Blog) AuthorCount {
	counts, order := groupByAuthor(blogs, func(domain.Blog) int { return 1 })

	best := AuthorCount{}
	for _, author := range order {
		if counts[author] > best.Blogs {
			best = AuthorCount{Author: author, Blogs: counts[author]}
		}
	}
	return best
}

// MostLikes returns the author with the highest like total, with the same
// grouping and tie-break policy as MostBlogs.
func MostLikes(blogs []domain.Blog) AuthorLikes {
	sums, order := groupByAuthor(blogs, func(b domain.Blog) int { return b.Likes })

	best := AuthorLikes{}
	for _, author := range order {
		if sums[author] > best.Likes {
			best = AuthorLikes{Author: author, Likes: sums[author]}
		}
	}
	return best
}

// groupByAuthor folds weight over blogs per author and records the order in
// which authors first appear, keeping tie-breaks independent of map
// iteration order.
func groupByAuthor(blogs []domain.Blog, weight func(domain.Blog) int) (map[string]int, []string) {
	totals := make(map[string]int, len(blogs))
	order := make([]string, 0, len(blogs))

	for _, b := range blogs {
		if _, seen := totals[b.Author]; !seen {
			order = append(order, b.Author)
		}
		totals[b.Author] += weight(b)
	}

	return totals, order
}
