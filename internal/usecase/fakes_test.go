package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/repository"
	"roostermarket/internal/domain/service"
	"roostermarket/pkg/errors"
)

var idSeq struct {
	sync.Mutex
	n int
}

func nextID(prefix string) string {
	idSeq.Lock()
	defer idSeq.Unlock()
	idSeq.n++
	return fmt.Sprintf("%s-%d", prefix, idSeq.n)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// users

type fakeUserRepo struct {
	users map[string]*entity.User
	fail  error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if r.fail != nil {
		return r.fail
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) GetByFirebaseUID(ctx context.Context, uid string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.FirebaseUID == uid })
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

type fakeRoleRepo struct {
	members map[string][]string
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{members: map[string][]string{}}
}

func (r *fakeRoleRepo) EnsureRole(ctx context.Context, name string) (*entity.RoleGroup, error) {
	if _, ok := r.members[name]; !ok {
		r.members[name] = []string{}
	}
	return &entity.RoleGroup{Name: name, Members: r.members[name]}, nil
}

func (r *fakeRoleRepo) AddMember(ctx context.Context, name, userID string) error {
	r.members[name] = append(r.members[name], userID)
	return nil
}

// listings

type fakeListingRepo struct {
	listings map[string]*entity.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: map[string]*entity.Listing{}}
}

func (r *fakeListingRepo) Create(ctx context.Context, l *entity.Listing) error {
	if l.ID == "" {
		l.ID = nextID("listing")
	}
	r.listings[l.ID] = l
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	if l, ok := r.listings[id]; ok {
		return l, nil
	}
	return nil, errors.NotFound("Listing", nil)
}

func (r *fakeListingRepo) List(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	var out []*entity.Listing
	for _, l := range r.listings {
		if sellerID == "" || l.SellerID == sellerID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), int64(len(out)), nil
}

func (r *fakeListingRepo) Update(ctx context.Context, l *entity.Listing) error {
	r.listings[l.ID] = l
	return nil
}

func (r *fakeListingRepo) Delete(ctx context.Context, id string) error {
	delete(r.listings, id)
	return nil
}

func (r *fakeListingRepo) AddImage(ctx context.Context, listingID, mediaID string) error {
	l, ok := r.listings[listingID]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	for _, id := range l.ImageIDs {
		if id == mediaID {
			return nil
		}
	}
	l.ImageIDs = append(l.ImageIDs, mediaID)
	return nil
}

func (r *fakeListingRepo) RemoveImage(ctx context.Context, listingID, mediaID string) error {
	l, ok := r.listings[listingID]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	kept := l.ImageIDs[:0]
	for _, id := range l.ImageIDs {
		if id != mediaID {
			kept = append(kept, id)
		}
	}
	l.ImageIDs = kept
	return nil
}

// orders

type fakeOrderRepo struct {
	orders map[string]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*entity.Order{}}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if o.ID == "" {
		o.ID = nextID("order")
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) ListByUser(ctx context.Context, userID, role, status string, limit, offset int) ([]*entity.Order, int64, error) {
	var out []*entity.Order
	for _, o := range r.orders {
		if role == repository.OrderRoleBuyer && o.BuyerID != userID {
			continue
		}
		if role == repository.OrderRoleSeller && o.SellerID != userID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), int64(len(out)), nil
}

func (r *fakeOrderRepo) Transition(ctx context.Context, id string, fn func(*entity.Order) error) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	cp := *o
	if err := fn(&cp); err != nil {
		return nil, err
	}
	r.orders[id] = &cp
	out := cp
	return &out, nil
}

func (r *fakeOrderRepo) HasCompletedBetween(ctx context.Context, a, b string) (bool, error) {
	for _, o := range r.orders {
		if o.Status == entity.OrderStatusCompleted && o.Involves(a, b) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) HasCompletedForListing(ctx context.Context, buyerID, listingID string) (bool, error) {
	for _, o := range r.orders {
		if o.Status == entity.OrderStatusCompleted && o.BuyerID == buyerID && o.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

// feedback

type fakeFeedbackRepo struct {
	user    map[string]*entity.Feedback
	product map[string]*entity.ProductFeedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{
		user:    map[string]*entity.Feedback{},
		product: map[string]*entity.ProductFeedback{},
	}
}

func (r *fakeFeedbackRepo) CreateUserFeedback(ctx context.Context, f *entity.Feedback) error {
	if _, ok := r.user[f.ID]; ok {
		return errors.Conflict("Feedback already exists")
	}
	r.user[f.ID] = f
	return nil
}

func (r *fakeFeedbackRepo) ExistsUserFeedback(ctx context.Context, from, to, orderID string) (bool, error) {
	for _, f := range r.user {
		if f.FromUserID == from && f.ToUserID == to && f.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFeedbackRepo) ListUserFeedback(ctx context.Context, to string, limit, offset int) ([]*entity.Feedback, int64, error) {
	var out []*entity.Feedback
	for _, f := range r.user {
		if f.ToUserID == to {
			out = append(out, f)
		}
	}
	return page(out, limit, offset), int64(len(out)), nil
}

func (r *fakeFeedbackRepo) UserRatings(ctx context.Context, to string) ([]int, error) {
	var out []int
	for _, f := range r.user {
		if f.ToUserID == to {
			out = append(out, f.Rating)
		}
	}
	return out, nil
}

func (r *fakeFeedbackRepo) CreateProductFeedback(ctx context.Context, f *entity.ProductFeedback) error {
	if _, ok := r.product[f.ID]; ok {
		return errors.Conflict("Feedback already exists")
	}
	r.product[f.ID] = f
	return nil
}

func (r *fakeFeedbackRepo) ExistsProductFeedback(ctx context.Context, userID, listingID string) (bool, error) {
	for _, f := range r.product {
		if f.UserID == userID && f.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFeedbackRepo) ListProductFeedback(ctx context.Context, listingID string, limit, offset int) ([]*entity.ProductFeedback, int64, error) {
	var out []*entity.ProductFeedback
	for _, f := range r.product {
		if f.ListingID == listingID {
			out = append(out, f)
		}
	}
	return page(out, limit, offset), int64(len(out)), nil
}

func (r *fakeFeedbackRepo) ListingRatings(ctx context.Context, listingID string) ([]int, error) {
	var out []int
	for _, f := range r.product {
		if f.ListingID == listingID {
			out = append(out, f.Rating)
		}
	}
	return out, nil
}

// media

type fakeMediaRepo struct {
	media map[string]*entity.Media
	fail  error
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{media: map[string]*entity.Media{}}
}

func (r *fakeMediaRepo) Create(ctx context.Context, m *entity.Media) error {
	if r.fail != nil {
		return r.fail
	}
	if m.ID == "" {
		m.ID = nextID("media")
	}
	r.media[m.ID] = m
	return nil
}

func (r *fakeMediaRepo) GetByID(ctx context.Context, id string) (*entity.Media, error) {
	if m, ok := r.media[id]; ok {
		return m, nil
	}
	return nil, errors.NotFound("Media", nil)
}

func (r *fakeMediaRepo) ListByListing(ctx context.Context, listingID string) ([]*entity.Media, error) {
	var out []*entity.Media
	for _, m := range r.media {
		if m.ListingID == listingID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMediaRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Media, int64, error) {
	var out []*entity.Media
	for _, m := range r.media {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	return page(out, limit, offset), int64(len(out)), nil
}

func (r *fakeMediaRepo) Delete(ctx context.Context, id string) error {
	delete(r.media, id)
	return nil
}

// posts

type fakePostRepo struct {
	mu       sync.Mutex
	posts    map[string]*entity.Post
	comments []*entity.Comment
	likes    map[string]map[string]bool
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts: map[string]*entity.Post{},
		likes: map[string]map[string]bool{},
	}
}

func (r *fakePostRepo) CreatePost(ctx context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = nextID("post")
	}
	r.posts[p.ID] = p
	return nil
}

func (r *fakePostRepo) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, errors.NotFound("Post", nil)
}

func (r *fakePostRepo) ListPosts(ctx context.Context, featuredOnly bool, limit, offset int) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Post
	for _, p := range r.posts {
		if !featuredOnly || p.IsFeatured {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *fakePostRepo) CreateComment(ctx context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[c.PostID]
	if !ok {
		return errors.NotFound("Post", nil)
	}
	if c.ID == "" {
		c.ID = nextID("comment")
	}
	r.comments = append(r.comments, c)
	p.CommentsCount++
	return nil
}

func (r *fakePostRepo) ListComments(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return page(out, limit, offset), nil
}

func (r *fakePostRepo) ToggleLike(ctx context.Context, postID, userID string) (*entity.Post, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, false, errors.NotFound("Post", nil)
	}
	if r.likes[postID] == nil {
		r.likes[postID] = map[string]bool{}
	}
	liked := !r.likes[postID][userID]
	if liked {
		r.likes[postID][userID] = true
		p.LikesCount++
	} else {
		delete(r.likes[postID], userID)
		p.LikesCount--
	}
	cp := *p
	return &cp, liked, nil
}

// chat

type fakeChatRepo struct {
	messages      map[string][]*entity.Message
	conversations map[string]*entity.Conversation
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		messages:      map[string][]*entity.Message{},
		conversations: map[string]*entity.Conversation{},
	}
}

func (r *fakeChatRepo) PushMessage(ctx context.Context, conv string, m *entity.Message) error {
	m.ID = nextID("msg")
	cp := *m
	r.messages[conv] = append(r.messages[conv], &cp)
	return nil
}

func (r *fakeChatRepo) UpdateConversation(ctx context.Context, conv string, c *entity.Conversation) error {
	r.conversations[conv] = c
	return nil
}

func (r *fakeChatRepo) GetConversation(ctx context.Context, conv string) (*entity.Conversation, error) {
	if c, ok := r.conversations[conv]; ok {
		return c, nil
	}
	return nil, errors.NotFound("Conversation", nil)
}

func (r *fakeChatRepo) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	var out []*entity.Conversation
	for _, c := range r.conversations {
		for _, m := range c.Members {
			if m == userID {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (r *fakeChatRepo) ListMessages(ctx context.Context, conv string, limit int) ([]*entity.Message, error) {
	var out []*entity.Message
	for _, m := range r.messages[conv] {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeChatRepo) GetMessage(ctx context.Context, conv, id string) (*entity.Message, error) {
	for _, m := range r.messages[conv] {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *fakeChatRepo) MarkSeen(ctx context.Context, conv, id string) error {
	for _, m := range r.messages[conv] {
		if m.ID == id {
			m.Seen = true
			return nil
		}
	}
	return errors.NotFound("Message", nil)
}

func (r *fakeChatRepo) DeleteMessage(ctx context.Context, conv, id string) error {
	kept := r.messages[conv][:0]
	for _, m := range r.messages[conv] {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	r.messages[conv] = kept
	return nil
}

// collaborators

type fakeIdentity struct {
	accounts  map[string]string // uid -> password
	emails    map[string]string // email -> uid
	deleted   []string
	revoked   []string
	resets    []string
	createErr error
	deleteErr error
	signInErr error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{accounts: map[string]string{}, emails: map[string]string{}}
}

func (f *fakeIdentity) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	uid := nextID("fbuid")
	f.accounts[uid] = password
	f.emails[email] = uid
	return uid, nil
}

func (f *fakeIdentity) DeleteUser(ctx context.Context, uid string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, uid)
	delete(f.accounts, uid)
	return nil
}

func (f *fakeIdentity) SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.AuthTokens, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	uid, ok := f.emails[email]
	if !ok || f.accounts[uid] != password {
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}
	return &entity.AuthTokens{UID: uid, IDToken: "token-" + uid, RefreshToken: "refresh-" + uid}, nil
}

func (f *fakeIdentity) VerifyToken(ctx context.Context, token string) (string, error) {
	const prefix = "token-"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return "", fmt.Errorf("bad token")
	}
	return token[len(prefix):], nil
}

func (f *fakeIdentity) RevokeSessions(ctx context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func (f *fakeIdentity) SendPasswordReset(ctx context.Context, email string) error {
	f.resets = append(f.resets, email)
	return nil
}

type fakeFiles struct {
	uploaded map[string][]byte
	deleted  []string
}

var _ service.FileUploadService = (*fakeFiles)(nil)

func newFakeFiles() *fakeFiles {
	return &fakeFiles{uploaded: map[string][]byte{}}
}

func (f *fakeFiles) UploadFile(ctx context.Context, file io.Reader, contentType, folder string, isPublic bool) (*service.UploadResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	name := folder + "/" + nextID("obj")
	f.uploaded[name] = data
	return &service.UploadResult{URL: "https://files.test/" + name, ObjectName: name}, nil
}

func (f *fakeFiles) DeleteFile(ctx context.Context, objectName string) error {
	f.deleted = append(f.deleted, objectName)
	delete(f.uploaded, objectName)
	return nil
}

func (f *fakeFiles) Close() error { return nil }

type fakePublisher struct {
	events []*entity.ChatEvent
	to     [][]string
}

func (p *fakePublisher) Publish(ctx context.Context, userIDs []string, event *entity.ChatEvent) error {
	p.events = append(p.events, event)
	p.to = append(p.to, userIDs)
	return nil
}

type fakeLimiter struct{ deny bool }

func (l fakeLimiter) Allow(key, action string) (bool, time.Duration) {
	if l.deny {
		return false, time.Second
	}
	return true, 0
}

// fixtures

func sessionFor(u *entity.User) *entity.Session {
	return u.Session()
}

func newUser(id, role string) *entity.User {
	return &entity.User{
		ID:          id,
		Username:    id,
		Email:       id + "@example.com",
		FirebaseUID: "fb-" + id,
		Role:        role,
		ACL:         entity.ACL{PublicRead: true, Readers: []string{id}, Writers: []string{id}},
	}
}
