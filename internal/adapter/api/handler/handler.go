package handler

import (
	"campusmarket/internal/usecase"
)

var (
	authHandler    *AuthHandler
	listingHandler *ListingHandler
	profileHandler *ProfileHandler
	messageHandler *MessageHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	listingUseCase *usecase.ListingUseCase,
	messageUseCase *usecase.MessageUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	listingHandler = NewListingHandler(listingUseCase, messageUseCase)
	profileHandler = NewProfileHandler(listingUseCase)
	messageHandler = NewMessageHandler(messageUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetProfileHandler() *ProfileHandler {
	return profileHandler
}

func GetMessageHandler() *MessageHandler {
	return messageHandler
}
