package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/qixeo/qixeo-web/internal/domain/entity"
	repo "github.com/qixeo/qixeo-web/internal/domain/repository"
	"github.com/qixeo/qixeo-web/pkg/helpers"
)

// DirectoryPageSize is the number of users listed per page on /users.
const DirectoryPageSize = 20

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type UserService struct {
	Repo         repo.UserRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewUserService(r repo.UserRepository, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *UserService {
	return &UserService{
		Repo:         r,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
	}
}

// Authenticate validates email/password and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			helpers.LogError(s.Logger, "user lookup failed", err, logrus.Fields{"email": email})
		}
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.HashedPassword, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetUser returns ErrUserNotFound when no row matches id.
func (s *UserService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrUserNotFound
	}
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UserPage is one page of the users directory.
type UserPage struct {
	Users    []entity.User
	Query    string
	Page     int
	PageSize int
	Total    int
}

func (p UserPage) HasPrev() bool { return p.Page > 1 }
func (p UserPage) HasNext() bool { return p.Page*p.PageSize < p.Total }
func (p UserPage) NextPage() int { return p.Page + 1 }
func (p UserPage) PrevPage() int { return p.Page - 1 }

// Directory lists users ordered by name, or searches when q is not blank.
// Pages past the end are clamped to the last page.
func (s *UserService) Directory(ctx context.Context, q string, page int) (UserPage, error) {
	if page < 1 {
		page = 1
	}
	q = strings.TrimSpace(q)
	out := UserPage{Query: q, Page: page, PageSize: DirectoryPageSize}
	if q != "" {
		users, err := s.SearchUsers(ctx, q, DirectoryPageSize)
		if err != nil {
			return UserPage{}, err
		}
		out.Page, out.Users, out.Total = 1, users, len(users)
		return out, nil
	}
	total, err := s.Repo.Count(ctx)
	if err != nil {
		return UserPage{}, err
	}
	if last := lastPage(total, DirectoryPageSize); page > last {
		page = last
		out.Page = page
	}
	users, err := s.Repo.List(ctx, DirectoryPageSize, (page-1)*DirectoryPageSize)
	if err != nil {
		return UserPage{}, err
	}
	out.Users, out.Total = users, total
	return out, nil
}

func lastPage(total, size int) int {
	if total <= size {
		return 1
	}
	return (total + size - 1) / size
}

// SearchUsers runs a multi_match on email and name in Elasticsearch when a
// client is configured, and an ILIKE query in Postgres otherwise or when
// Elasticsearch fails.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]entity.User, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	if s.ES != nil && s.ESUsersIndex != "" {
		users, err := s.searchES(ctx, q, size)
		if err == nil {
			return users, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("q", q).Warn("es search failed; falling back to postgres")
		}
	}
	return s.Repo.Search(ctx, q, size)
}

type userDoc struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toDoc(u *entity.User) userDoc {
	return userDoc{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Image:     u.Image,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (s *UserService) searchES(ctx context.Context, q string, size int) ([]entity.User, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, oops.Code("ES_SEARCH_FAILED").With("q", q).Wrap(err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, oops.Code("ES_SEARCH_FAILED").With("status", res.Status()).Errorf("search response error")
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string  `json:"_id"`
				Source userDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, oops.Code("ES_SEARCH_DECODE_FAILED").Wrap(err)
	}

	out := make([]entity.User, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id := h.Source.ID
		if id == "" {
			id = h.ID
		}
		out = append(out, entity.User{ID: id, Email: h.Source.Email, Name: h.Source.Name, Image: h.Source.Image})
	}
	return out, nil
}

// IndexUser writes one user document; a missing client is a no-op.
func (s *UserService) IndexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	b, _ := json.Marshal(toDoc(u))
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if s.Logger != nil {
			s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
		}
		return oops.Code("ES_INDEX_FAILED").With("status", res.Status()).Errorf("index response error")
	}
	return nil
}

// Reindex streams every user from Postgres into the users index using the bulk API.
func (s *UserService) Reindex(ctx context.Context, batch int) (int, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return 0, oops.Code("ES_NOT_CONFIGURED").Errorf("elasticsearch is not configured")
	}
	if batch <= 0 {
		batch = 500
	}
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     s.ES,
		Index:      s.ESUsersIndex,
		NumWorkers: 2,
		OnError: func(ctx context.Context, err error) {
			helpers.LogError(s.Logger, "bulk indexer error", err, nil)
		},
	})
	if err != nil {
		return 0, oops.Code("ES_BULK_INIT_FAILED").Wrap(err)
	}

	added := 0
	for offset := 0; ; offset += batch {
		users, err := s.Repo.List(ctx, batch, offset)
		if err != nil {
			_ = bi.Close(ctx)
			return added, err
		}
		for i := range users {
			b, _ := json.Marshal(toDoc(&users[i]))
			err := bi.Add(ctx, esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: users[i].ID,
				Body:       bytes.NewReader(b),
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					fields := logrus.Fields{"user_id": item.DocumentID, "reason": res.Error.Reason}
					helpers.LogError(s.Logger, "bulk index item failed", err, fields)
				},
			})
			if err != nil {
				_ = bi.Close(ctx)
				return added, oops.Code("ES_BULK_ADD_FAILED").Wrap(err)
			}
			added++
		}
		if len(users) < batch {
			break
		}
	}
	if err := bi.Close(ctx); err != nil {
		return added, oops.Code("ES_BULK_CLOSE_FAILED").Wrap(err)
	}
	if st := bi.Stats(); st.NumFailed > 0 {
		return int(st.NumIndexed), oops.Code("ES_BULK_PARTIAL").With("failed", st.NumFailed).Errorf("%d documents failed to index", st.NumFailed)
	}
	return added, nil
}
