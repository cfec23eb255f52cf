package service

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"chatline/internal/model/chat"
)

func newTestConversationService() (*ConversationService, *ChatService, *fakeConvRepo, *fakeMsgRepo) {
	provider := &fakeProvider{answer: "ok"}
	convRepo := newFakeConvRepo()
	msgRepo := newFakeMsgRepo()
	chatSvc := NewChatService(provider, convRepo, msgRepo, nil)
	return NewConversationService(convRepo, msgRepo, nil), chatSvc, convRepo, msgRepo
}

func TestConversationServiceList(t *testing.T) {
	ctx := context.Background()

	Convey("对话列表", t, func() {
		svc, chatSvc, _, _ := newTestConversationService()

		Convey("空用户得到空列表", func() {
			list, err := svc.List(ctx, "u1")
			So(err, ShouldBeNil)
			So(list, ShouldBeEmpty)
		})

		Convey("按最近更新排序，附带消息数", func() {
			_, err := chatSvc.Chat(ctx, "u1", "c1", "first conversation")
			So(err, ShouldBeNil)
			_, err = chatSvc.Chat(ctx, "u1", "c2", "second conversation")
			So(err, ShouldBeNil)
			// 给 c1 追加一轮，c1 应排到最前
			_, err = chatSvc.Chat(ctx, "u1", "c1", "one more")
			So(err, ShouldBeNil)

			list, err := svc.List(ctx, "u1")
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 2)
			So(list[0].ConversationID, ShouldEqual, "c1")
			So(list[0].Title, ShouldEqual, "first conversation")
			So(list[0].MessageCount, ShouldEqual, 4)
			So(list[1].ConversationID, ShouldEqual, "c2")
			So(list[1].MessageCount, ShouldEqual, 2)
		})

		Convey("只返回本用户的对话", func() {
			_, err := chatSvc.Chat(ctx, "u1", "c1", "mine")
			So(err, ShouldBeNil)
			_, err = chatSvc.Chat(ctx, "u2", "c9", "not mine")
			So(err, ShouldBeNil)

			list, err := svc.List(ctx, "u1")
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 1)
			So(list[0].ConversationID, ShouldEqual, "c1")
		})
	})
}

func TestConversationServiceHistory(t *testing.T) {
	ctx := context.Background()

	Convey("对话历史", t, func() {
		svc, chatSvc, _, _ := newTestConversationService()

		Convey("按时间升序返回全部消息", func() {
			_, err := chatSvc.Chat(ctx, "u1", "c1", "question one")
			So(err, ShouldBeNil)
			_, err = chatSvc.Chat(ctx, "u1", "c1", "question two")
			So(err, ShouldBeNil)

			history, err := svc.History(ctx, "u1", "c1")
			So(err, ShouldBeNil)
			So(history, ShouldHaveLength, 4)
			So(history[0].Text, ShouldEqual, "question one")
			So(history[0].Role, ShouldEqual, chat.RoleUser)
			So(history[1].Role, ShouldEqual, chat.RoleBot)
			So(history[2].Text, ShouldEqual, "question two")
			for i := 1; i < len(history); i++ {
				So(history[i].Timestamp.Before(history[i-1].Timestamp), ShouldBeFalse)
			}
		})

		Convey("不存在的对话返回空历史", func() {
			history, err := svc.History(ctx, "u1", "no-such")
			So(err, ShouldBeNil)
			So(history, ShouldBeEmpty)
		})
	})
}

func TestConversationServiceRename(t *testing.T) {
	ctx := context.Background()

	Convey("重命名对话", t, func() {
		svc, chatSvc, _, _ := newTestConversationService()
		_, err := chatSvc.Chat(ctx, "u1", "c1", "hello")
		So(err, ShouldBeNil)

		Convey("成功时返回更新后的对话", func() {
			conv, err := svc.Rename(ctx, "u1", "c1", "  My Chat  ")
			So(err, ShouldBeNil)
			So(conv.Title, ShouldEqual, "My Chat")
		})

		Convey("空标题被拒绝", func() {
			_, err := svc.Rename(ctx, "u1", "c1", "   ")
			So(err, ShouldEqual, ErrEmptyTitle)
		})

		Convey("对话不存在返回 ErrConversationNotFound", func() {
			_, err := svc.Rename(ctx, "u1", "no-such", "title")
			So(err, ShouldEqual, ErrConversationNotFound)
		})

		Convey("改不了别人的对话", func() {
			_, err := svc.Rename(ctx, "u2", "c1", "hijack")
			So(err, ShouldEqual, ErrConversationNotFound)
		})
	})
}

func TestConversationServiceClear(t *testing.T) {
	ctx := context.Background()

	Convey("清除对话", t, func() {
		svc, chatSvc, convRepo, _ := newTestConversationService()

		Convey("Clear 删除消息和元数据，返回消息数", func() {
			_, err := chatSvc.Chat(ctx, "u1", "c1", "hello")
			So(err, ShouldBeNil)
			_, err = chatSvc.Chat(ctx, "u1", "c1", "again")
			So(err, ShouldBeNil)

			deleted, err := svc.Clear(ctx, "u1", "c1")
			So(err, ShouldBeNil)
			So(deleted, ShouldEqual, 4)

			history, err := svc.History(ctx, "u1", "c1")
			So(err, ShouldBeNil)
			So(history, ShouldBeEmpty)
			So(convRepo.count(), ShouldEqual, 0)
		})

		Convey("清除不存在的对话是空操作", func() {
			deleted, err := svc.Clear(ctx, "u1", "no-such")
			So(err, ShouldBeNil)
			So(deleted, ShouldEqual, 0)
		})

		Convey("ClearAll 清掉本用户全部对话，不动别人的", func() {
			_, err := chatSvc.Chat(ctx, "u1", "c1", "one")
			So(err, ShouldBeNil)
			_, err = chatSvc.Chat(ctx, "u1", "c2", "two")
			So(err, ShouldBeNil)
			_, err = chatSvc.Chat(ctx, "u2", "c3", "other user")
			So(err, ShouldBeNil)

			deleted, err := svc.ClearAll(ctx, "u1")
			So(err, ShouldBeNil)
			So(deleted, ShouldEqual, 4)

			mine, err := svc.List(ctx, "u1")
			So(err, ShouldBeNil)
			So(mine, ShouldBeEmpty)

			others, err := svc.List(ctx, "u2")
			So(err, ShouldBeNil)
			So(others, ShouldHaveLength, 1)
		})
	})
}
