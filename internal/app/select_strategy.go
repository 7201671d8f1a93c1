package app

import (
	"github.com/Amund211/profilelookup/internal/domain"
)

type SelectStrategy func(req domain.ProfileRequest) (ProfileStrategy, error)

func BuildSelectStrategy(
	steam ProfileStrategy,
	xbl ProfileStrategy,
	minecraftByID ProfileStrategy,
	minecraftByUsername ProfileStrategy,
) SelectStrategy {
	return func(req domain.ProfileRequest) (ProfileStrategy, error) {
		switch req.Source {
		case domain.SourceSteam:
			return steam, nil
		case domain.SourceXbl:
			return xbl, nil
		case domain.SourceMinecraft:
			hasID := req.Params["id"] != ""
			hasUsername := req.Params["username"] != ""
			switch {
			case hasID && hasUsername:
				return nil, &domain.ValidationError{Fields: map[string]string{
					"id":       "cannot be combined with username",
					"username": "cannot be combined with id",
				}}
			case hasID:
				return minecraftByID, nil
			default:
				return minecraftByUsername, nil
			}
		}

		return nil, domain.NewValidationError("type", "must be one of steam, xbl, minecraft")
	}
}
