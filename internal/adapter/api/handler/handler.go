package handler

import (
	"roostermarket/internal/usecase"
)

var (
	authHandler      *AuthHandler
	userHandler      *UserHandler
	listingHandler   *ListingHandler
	orderHandler     *OrderHandler
	feedbackHandler  *FeedbackHandler
	mediaHandler     *MediaHandler
	communityHandler *CommunityHandler
	chatHandler      *ChatHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	listingUseCase *usecase.ListingUseCase,
	orderUseCase *usecase.OrderUseCase,
	feedbackUseCase *usecase.FeedbackUseCase,
	mediaUseCase *usecase.MediaUseCase,
	communityUseCase *usecase.CommunityUseCase,
	chatUseCase *usecase.ChatUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	listingHandler = NewListingHandler(listingUseCase, mediaUseCase)
	orderHandler = NewOrderHandler(orderUseCase)
	feedbackHandler = NewFeedbackHandler(feedbackUseCase)
	mediaHandler = NewMediaHandler(mediaUseCase)
	communityHandler = NewCommunityHandler(communityUseCase)
	chatHandler = NewChatHandler(chatUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetFeedbackHandler() *FeedbackHandler {
	return feedbackHandler
}

func GetMediaHandler() *MediaHandler {
	return mediaHandler
}

func GetCommunityHandler() *CommunityHandler {
	return communityHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}
