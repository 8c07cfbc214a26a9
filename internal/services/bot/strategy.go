package bot

import "github.com/mcoot/rpsgame-go/internal/model"

// Strategy decides the computer opponent's hand for the current round
type Strategy interface {
	Choose(game *model.Game) model.Choice
}
