package aggregate

import (
	"context"
	"time"

	"go-bookstore-backoffice/internal/model"
)

const (
	TopSellerLimit      = 10
	GenreTopSellerLimit = 9

	// Weekly buckets are keyed by calendar day in UTC
	DayKeyLayout = "02/01/2006"
)

type TopSellerRecord struct {
	Title    string      `json:"title"`
	Quantity int         `json:"quantity"`
	Genre    model.Genre `json:"genre"`
	BookID   string      `json:"BookId"`
}

type GenreBook struct {
	BookID   string  `json:"bookId"`
	Title    string  `json:"title"`
	ImageURL *string `json:"imageUrl"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type GenreTopSellerRecord struct {
	Genre     model.Genre `json:"genre"`
	TopSeller []GenreBook `json:"topSeller"`
}

type BookPrice struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

type GenreOrderRecord struct {
	Genre    model.Genre `json:"genre"`
	Quantity int         `json:"quantity"`
	Total    float64     `json:"total"`
	Books    []BookPrice `json:"books"`
}

// UserBook is one book in a per-user rollup. Genre is only set when books are not already
// nested under a genre.
type UserBook struct {
	Genre      model.Genre `json:"genre,omitempty"`
	BookID     string      `json:"bookId"`
	Title      string      `json:"title"`
	ImageURL   *string     `json:"imageUrl"`
	Price      float64     `json:"price"`
	TotalPrice float64     `json:"totalPrice"`
	Quantity   int         `json:"quantity"`
}

type UserGenreBooks struct {
	Genre model.Genre `json:"genre"`
	Books []UserBook  `json:"books"`
}

type TopUserRecord struct {
	UserID     string           `json:"userId"`
	TotalPrice float64          `json:"totalPrice"`
	Quantity   int              `json:"quantity"`
	Books      []UserGenreBooks `json:"books"`
}

type UserOrderRecord struct {
	UserID     string     `json:"userId"`
	TotalPrice float64    `json:"totalPrice"`
	Quantity   int        `json:"quantity"`
	Books      []UserBook `json:"books"`
}

type WeeklyRevenueRecord struct {
	Date       string  `json:"date"`
	TotalPrice float64 `json:"totalPrice"`
	Count      int     `json:"count"`
}

type HistoryRecord struct {
	Title    string      `json:"title"`
	Genre    model.Genre `json:"genre"`
	Quantity int         `json:"quantity"`
	Total    float64     `json:"total"`
	BuyAt    time.Time   `json:"buyAt"`
}

// Window is the half-open interval [From, Before).
type Window struct {
	From   time.Time
	Before time.Time
}

// WeekWindow spans backDays before now to forwardDays after now.
func WeekWindow(now time.Time, backDays, forwardDays int) Window {
	return Window{
		From:   now.AddDate(0, 0, -backDays),
		Before: now.AddDate(0, 0, forwardDays),
	}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.Before)
}

// TopSeller ranks titles by units sold and keeps the best TopSellerLimit.
func TopSeller(ctx context.Context, rows []Row) ([]TopSellerRecord, error) {
	grouped, err := GroupBy(ctx, rows,
		func(r Row) string { return r.Item.Title },
		func(r Row) TopSellerRecord {
			return TopSellerRecord{Title: r.Item.Title, Genre: r.Item.Genre, BookID: r.Item.ID}
		},
		func(acc *TopSellerRecord, r Row) { acc.Quantity += r.Order.Quantity },
	)
	if err != nil {
		return nil, err
	}
	return Run(ctx, grouped,
		SortBy(Desc(func(t TopSellerRecord) int { return t.Quantity })),
		Limit[TopSellerRecord](TopSellerLimit),
	)
}

type genreBookKey struct {
	genre  model.Genre
	title  string
	bookID string
}

type genreTopSellerAcc struct {
	genre model.Genre
	books *OrderedSet[string, GenreBook]
}

// TopSellerByGenre ranks books inside each genre and keeps the best GenreTopSellerLimit per genre.
// Genres come out in first-seen order.
func TopSellerByGenre(ctx context.Context, rows []Row) ([]GenreTopSellerRecord, error) {
	type bookAcc struct {
		genre model.Genre
		book  GenreBook
	}
	perBook, err := GroupBy(ctx, rows,
		func(r Row) genreBookKey { return genreBookKey{r.Item.Genre, r.Item.Title, r.Item.ID} },
		func(r Row) bookAcc {
			return bookAcc{genre: r.Item.Genre, book: GenreBook{
				BookID:   r.Item.ID,
				Title:    r.Item.Title,
				ImageURL: r.Item.ImageURL,
				Price:    r.Item.Price,
			}}
		},
		func(acc *bookAcc, r Row) { acc.book.Quantity += r.Order.Quantity },
	)
	if err != nil {
		return nil, err
	}

	perGenre, err := GroupBy(ctx, perBook,
		func(b bookAcc) model.Genre { return b.genre },
		func(b bookAcc) genreTopSellerAcc {
			return genreTopSellerAcc{genre: b.genre, books: NewOrderedSet[string, GenreBook]()}
		},
		func(acc *genreTopSellerAcc, b bookAcc) { acc.books.Add(b.book.BookID, b.book) },
	)
	if err != nil {
		return nil, err
	}

	out := make([]GenreTopSellerRecord, 0, len(perGenre))
	for _, g := range perGenre {
		books, err := Run(ctx, g.books.Values(),
			SortBy(Desc(func(b GenreBook) int { return b.Quantity })),
			Limit[GenreBook](GenreTopSellerLimit),
		)
		if err != nil {
			return nil, err
		}
		out = append(out, GenreTopSellerRecord{Genre: g.genre, TopSeller: books})
	}
	return out, nil
}

// OrderByGenre sums units and revenue per genre and lists the distinct books sold in it.
func OrderByGenre(ctx context.Context, rows []Row) ([]GenreOrderRecord, error) {
	type genreAcc struct {
		record GenreOrderRecord
		books  *OrderedSet[string, BookPrice]
	}
	grouped, err := GroupBy(ctx, rows,
		func(r Row) model.Genre { return r.Item.Genre },
		func(r Row) genreAcc {
			return genreAcc{
				record: GenreOrderRecord{Genre: r.Item.Genre},
				books:  NewOrderedSet[string, BookPrice](),
			}
		},
		func(acc *genreAcc, r Row) {
			acc.record.Quantity += r.Order.Quantity
			acc.record.Total += r.Order.TotalPrice
			acc.books.Add(r.Item.ID, BookPrice{Title: r.Item.Title, Price: r.Item.Price})
		},
	)
	if err != nil {
		return nil, err
	}
	return Project(ctx, grouped, func(g genreAcc) GenreOrderRecord {
		g.record.Books = g.books.Values()
		return g.record
	})
}

type userBookKey struct {
	userID string
	bookID string
	title  string
}

type userBookAcc struct {
	userID string
	book   UserBook
}

// rollupUserBooks groups rows per (user, book), keeping the first-seen descriptive fields.
// When withGenreKey is set the genre is part of the key, otherwise it is first-seen.
func rollupUserBooks(ctx context.Context, rows []Row, withGenreKey bool) ([]userBookAcc, error) {
	type key struct {
		genre model.Genre
		userBookKey
	}
	return GroupBy(ctx, rows,
		func(r Row) key {
			k := key{userBookKey: userBookKey{r.Order.UserID, r.Item.ID, r.Item.Title}}
			if withGenreKey {
				k.genre = r.Item.Genre
			}
			return k
		},
		func(r Row) userBookAcc {
			return userBookAcc{userID: r.Order.UserID, book: UserBook{
				Genre:    r.Item.Genre,
				BookID:   r.Item.ID,
				Title:    r.Item.Title,
				ImageURL: r.Item.ImageURL,
				Price:    r.Item.Price,
			}}
		},
		func(acc *userBookAcc, r Row) {
			acc.book.TotalPrice += r.Order.TotalPrice
			acc.book.Quantity += r.Order.Quantity
		},
	)
}

// TopUserBought rolls orders up book -> genre -> user and ranks users by units bought.
// The result is complete and sorted; callers paginate it.
func TopUserBought(ctx context.Context, rows []Row) ([]TopUserRecord, error) {
	perBook, err := rollupUserBooks(ctx, rows, true)
	if err != nil {
		return nil, err
	}

	type userGenreKey struct {
		genre  model.Genre
		userID string
	}
	type userGenreAcc struct {
		userID     string
		genre      model.Genre
		totalPrice float64
		quantity   int
		books      *OrderedSet[string, UserBook]
	}
	perGenre, err := GroupBy(ctx, perBook,
		func(b userBookAcc) userGenreKey { return userGenreKey{b.book.Genre, b.userID} },
		func(b userBookAcc) userGenreAcc {
			return userGenreAcc{userID: b.userID, genre: b.book.Genre, books: NewOrderedSet[string, UserBook]()}
		},
		func(acc *userGenreAcc, b userBookAcc) {
			acc.totalPrice += b.book.TotalPrice
			acc.quantity += b.book.Quantity
			book := b.book
			book.Genre = ""
			acc.books.Add(book.BookID, book)
		},
	)
	if err != nil {
		return nil, err
	}

	type userAcc struct {
		record TopUserRecord
		genres *OrderedSet[model.Genre, UserGenreBooks]
	}
	perUser, err := GroupBy(ctx, perGenre,
		func(g userGenreAcc) string { return g.userID },
		func(g userGenreAcc) userAcc {
			return userAcc{
				record: TopUserRecord{UserID: g.userID},
				genres: NewOrderedSet[model.Genre, UserGenreBooks](),
			}
		},
		func(acc *userAcc, g userGenreAcc) {
			acc.record.TotalPrice += g.totalPrice
			acc.record.Quantity += g.quantity
			acc.genres.Add(g.genre, UserGenreBooks{Genre: g.genre, Books: g.books.Values()})
		},
	)
	if err != nil {
		return nil, err
	}

	records, err := Project(ctx, perUser, func(u userAcc) TopUserRecord {
		u.record.Books = u.genres.Values()
		return u.record
	})
	if err != nil {
		return nil, err
	}
	return Run(ctx, records, SortBy(Desc(func(u TopUserRecord) int { return u.Quantity })))
}

// UserOrders rolls orders up book -> user without the genre split and ranks users by units
// bought. The result is complete and sorted; callers paginate it.
func UserOrders(ctx context.Context, rows []Row) ([]UserOrderRecord, error) {
	perBook, err := rollupUserBooks(ctx, rows, false)
	if err != nil {
		return nil, err
	}

	type userAcc struct {
		record UserOrderRecord
		books  *OrderedSet[string, UserBook]
	}
	perUser, err := GroupBy(ctx, perBook,
		func(b userBookAcc) string { return b.userID },
		func(b userBookAcc) userAcc {
			return userAcc{record: UserOrderRecord{UserID: b.userID}, books: NewOrderedSet[string, UserBook]()}
		},
		func(acc *userAcc, b userBookAcc) {
			acc.record.TotalPrice += b.book.TotalPrice
			acc.record.Quantity += b.book.Quantity
			acc.books.Add(b.book.BookID, b.book)
		},
	)
	if err != nil {
		return nil, err
	}

	records, err := Project(ctx, perUser, func(u userAcc) UserOrderRecord {
		u.record.Books = u.books.Values()
		return u.record
	})
	if err != nil {
		return nil, err
	}
	return Run(ctx, records, SortBy(Desc(func(u UserOrderRecord) int { return u.Quantity })))
}

// WeeklyRevenue buckets the orders created inside w by calendar day.
func WeeklyRevenue(ctx context.Context, rows []Row, w Window) ([]WeeklyRevenueRecord, error) {
	inWindow, err := Run(ctx, rows, Match(func(r Row) bool { return w.Contains(r.Order.CreatedAt) }))
	if err != nil {
		return nil, err
	}
	return GroupBy(ctx, inWindow,
		func(r Row) string { return r.Order.CreatedAt.UTC().Format(DayKeyLayout) },
		func(r Row) WeeklyRevenueRecord {
			return WeeklyRevenueRecord{Date: r.Order.CreatedAt.UTC().Format(DayKeyLayout)}
		},
		func(acc *WeeklyRevenueRecord, r Row) {
			acc.TotalPrice += r.Order.TotalPrice
			acc.Count++
		},
	)
}

// History projects one user's orders, newest first. The result is complete; callers paginate it.
func History(ctx context.Context, rows []Row, userID string) ([]HistoryRecord, error) {
	mine, err := Run(ctx, rows, Match(func(r Row) bool { return r.Order.UserID == userID }))
	if err != nil {
		return nil, err
	}
	records, err := Project(ctx, mine, func(r Row) HistoryRecord {
		return HistoryRecord{
			Title:    r.Item.Title,
			Genre:    r.Item.Genre,
			Quantity: r.Order.Quantity,
			Total:    r.Order.TotalPrice,
			BuyAt:    r.Order.CreatedAt,
		}
	})
	if err != nil {
		return nil, err
	}
	return Run(ctx, records, SortBy(func(a, b HistoryRecord) int { return b.BuyAt.Compare(a.BuyAt) }))
}
