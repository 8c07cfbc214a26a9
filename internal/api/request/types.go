package request

// SetModeRequest is the request body for selecting mode and round count
type SetModeRequest struct {
	Mode       string `json:"mode"`
	NumOfGames int    `json:"num_of_games"`
}

// EnterPlayersRequest is the request body for naming the players.
// Player2 is ignored in single player mode.
type EnterPlayersRequest struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2,omitempty"`
}

// ChooseAvatarRequest is the request body for picking an avatar
type ChooseAvatarRequest struct {
	Slot   int    `json:"slot"`
	Avatar string `json:"avatar"`
}

// SubmitChoiceRequest is the request body for playing a hand
type SubmitChoiceRequest struct {
	Slot   int    `json:"slot"`
	Choice string `json:"choice"`
}
