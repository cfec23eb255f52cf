package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"chatline/internal/model/auth"
	"chatline/internal/model/chat"
)

var errFakeNotFound = errors.New("not found")

// ---- 用户存储的内存实现 ----

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*auth.User // key: 用户ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*auth.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return errors.New("duplicate key")
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, errFakeNotFound
}

func (r *fakeUserRepo) find(match func(*auth.User) bool) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return r.find(func(u *auth.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return r.find(func(u *auth.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByGoogleID(_ context.Context, googleID string) (*auth.User, error) {
	return r.find(func(u *auth.User) bool { return u.GoogleID != "" && u.GoogleID == googleID })
}

func (r *fakeUserRepo) LinkGoogleAccount(_ context.Context, id, googleID, picture string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errFakeNotFound
	}
	u.GoogleID = googleID
	u.AuthProvider = auth.ProviderGoogle
	if picture != "" {
		u.ProfilePicture = picture
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// ---- 对话元数据存储的内存实现 ----

type fakeConvRepo struct {
	mu    sync.Mutex
	convs map[string]*chat.Conversation // key: userID + "/" + conversationID
	seq   int                           // 单调递增，保证 UpdatedAt 严格有序
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{convs: map[string]*chat.Conversation{}}
}

func (r *fakeConvRepo) tick() time.Time {
	r.seq++
	return time.Unix(0, int64(r.seq)*int64(time.Millisecond))
}

func convKey(userID, conversationID string) string {
	return userID + "/" + conversationID
}

func (r *fakeConvRepo) Create(_ context.Context, conv *chat.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := convKey(conv.UserID, conv.ConversationID)
	if _, ok := r.convs[key]; ok {
		return errors.New("duplicate key")
	}
	now := r.tick()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	cp := *conv
	r.convs[key] = &cp
	return nil
}

func (r *fakeConvRepo) Find(_ context.Context, userID, conversationID string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.convs[convKey(userID, conversationID)]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, errFakeNotFound
}

func (r *fakeConvRepo) Touch(_ context.Context, userID, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[convKey(userID, conversationID)]
	if !ok {
		return errFakeNotFound
	}
	c.UpdatedAt = r.tick()
	return nil
}

func (r *fakeConvRepo) Rename(_ context.Context, userID, conversationID, title string) (*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[convKey(userID, conversationID)]
	if !ok {
		return nil, errFakeNotFound
	}
	c.Title = title
	c.UpdatedAt = r.tick()
	cp := *c
	return &cp, nil
}

func (r *fakeConvRepo) ListByUserID(_ context.Context, userID string) ([]*chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*chat.Conversation
	for _, c := range r.convs {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeConvRepo) Delete(_ context.Context, userID, conversationID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := convKey(userID, conversationID)
	if _, ok := r.convs[key]; !ok {
		return 0, nil
	}
	delete(r.convs, key)
	return 1, nil
}

func (r *fakeConvRepo) DeleteAllByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for key, c := range r.convs {
		if c.UserID == userID {
			delete(r.convs, key)
			n++
		}
	}
	return n, nil
}

func (r *fakeConvRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.convs)
}

// ---- 消息存储的内存实现 ----

type fakeMsgRepo struct {
	mu       sync.Mutex
	messages []chat.Message
	seq      int
}

func newFakeMsgRepo() *fakeMsgRepo {
	return &fakeMsgRepo{}
}

func (r *fakeMsgRepo) Append(_ context.Context, msg *chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if msg.ID == "" {
		msg.ID = fmt.Sprintf("msg-%d", r.seq)
	}
	msg.Timestamp = time.Unix(0, int64(r.seq)*int64(time.Millisecond))
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeMsgRepo) History(_ context.Context, userID, conversationID string, limit int64) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Message
	for _, m := range r.messages {
		if m.UserID == userID && m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[int64(len(out))-limit:]
	}
	return out, nil
}

func (r *fakeMsgRepo) CountByConversation(_ context.Context, userID, conversationID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if m.UserID == userID && m.ConversationID == conversationID {
			n++
		}
	}
	return n, nil
}

func (r *fakeMsgRepo) DeleteByConversation(_ context.Context, userID, conversationID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []chat.Message
	var n int64
	for _, m := range r.messages {
		if m.UserID == userID && m.ConversationID == conversationID {
			n++
			continue
		}
		kept = append(kept, m)
	}
	r.messages = kept
	return n, nil
}

func (r *fakeMsgRepo) DeleteAllByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []chat.Message
	var n int64
	for _, m := range r.messages {
		if m.UserID == userID {
			n++
			continue
		}
		kept = append(kept, m)
	}
	r.messages = kept
	return n, nil
}

// ---- 生成服务的桩实现 ----

type fakeProvider struct {
	mu          sync.Mutex
	answer      string
	err         error
	calls       int
	lastQuery   string
	lastHistory []chat.Message
}

func (p *fakeProvider) Complete(_ context.Context, query string, history []chat.Message) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastQuery = query
	p.lastHistory = append([]chat.Message(nil), history...)
	if p.err != nil {
		return "", p.err
	}
	return p.answer, nil
}
