package services

import (
	"context"
	"testing"

	"market/constants"
	"market/dto"
	"market/services/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatConversationFlow(t *testing.T) {
	db := newTestDB(t)
	push := &fakePush{}
	clock := newClock(testNow)
	chat := NewChatService(db, push, logger.Nop{}, clock.Now)
	ctx := context.Background()

	an := createUser(t, db, constants.RoleCustomer, "an")
	binh := createUser(t, db, constants.RoleProvider, "binh")
	chi := createUser(t, db, constants.RoleProvider, "chi")

	_, err := chat.Send(ctx, an.ID, dto.SendMessageRequest{ReceiverID: an.ID, Content: "hi"})
	assert.Error(t, err)
	_, err = chat.Send(ctx, an.ID, dto.SendMessageRequest{ReceiverID: 9999, Content: "hi"})
	assert.Error(t, err)

	first, err := chat.Send(ctx, an.ID, dto.SendMessageRequest{ReceiverID: binh.ID, Content: "Còn lịch chiều nay không?"})
	require.NoError(t, err)
	_, err = chat.Send(ctx, binh.ID, dto.SendMessageRequest{ReceiverID: an.ID, Content: "Còn lúc 15h"})
	require.NoError(t, err)
	_, err = chat.Send(ctx, chi.ID, dto.SendMessageRequest{ReceiverID: an.ID, Content: "Bên mình giảm 20%"})
	require.NoError(t, err)
	assert.Equal(t, []uint{binh.ID, an.ID, an.ID}, push.users)

	msgs, err := chat.ListMessages(ctx, an.ID, binh.ID, dto.MessageQuery{})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, first.ID, msgs[0].ID)

	newer, err := chat.ListMessages(ctx, binh.ID, an.ID, dto.MessageQuery{AfterID: first.ID})
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, "Còn lúc 15h", newer[0].Content)

	convs, err := chat.Conversations(ctx, an.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, chi.ID, convs[0].Partner.ID)
	assert.Equal(t, 1, convs[0].Unread)
	assert.Equal(t, binh.ID, convs[1].Partner.ID)
	assert.Equal(t, 1, convs[1].Unread)

	n, err := chat.MarkRead(ctx, an.ID, binh.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	convs, err = chat.Conversations(ctx, an.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, convs[1].Unread)

	empty, err := chat.Conversations(ctx, createUser(t, db, constants.RoleCustomer, "lonely").ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
