package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cards-marketplace/internal/domain"

	"github.com/google/uuid"
)

var seedCards = []struct{ name, description string }{
	{"Blue-Eyes White Dragon", "This legendary dragon is a powerful engine of destruction."},
	{"Dark Magician", "The ultimate wizard in terms of attack and defense."},
	{"Dark Magician Girl", "Gains attack for every Dark Magician in either graveyard."},
	{"Red-Eyes Black Dragon", "A ferocious dragon with a deadly attack."},
	{"Exodia the Forbidden One", "Gather all five pieces to win the duel."},
	{"Kuriboh", "Discard this card to take no battle damage."},
	{"Summoned Skull", "A fiend with dark powers for confusing the enemy."},
	{"Celtic Guardian", "An elf who learned to wield a sword, he baffles enemies with lightning-swift attacks."},
	{"Time Wizard", "Toss a coin; call it right and destroy all your opponent's monsters."},
	{"Baby Dragon", "Much more than just a child, this dragon is gifted with untapped power."},
	{"Jinzo", "Trap cards cannot be activated while this card is face-up."},
	{"Gaia The Fierce Knight", "A knight whose horse travels faster than the wind."},
	{"Curse of Dragon", "A wicked dragon that taps into dark forces to execute a powerful attack."},
	{"Flame Swordsman", "A warrior whose sword burns with the fire of a thousand suns."},
	{"Buster Blader", "Gains attack for each dragon your opponent controls."},
	{"Black Luster Soldier", "A ritual warrior who treads the dimension of chaos."},
	{"Harpie Lady", "This human-shaped animal with wings is beautiful to watch but deadly in battle."},
	{"Mystical Elf", "A delicate elf that lacks offense but has a terrific defense."},
	{"Mirror Force", "Destroy all attack position monsters your opponent controls."},
	{"Pot of Greed", "Draw 2 cards."},
	{"Monster Reborn", "Special summon one monster from either graveyard."},
	{"Swords of Revealing Light", "Your opponent's monsters cannot attack for 3 turns."},
	{"Raigeki", "Destroy all monsters your opponent controls."},
	{"Slifer the Sky Dragon", "Gains 1000 attack for each card in its controller's hand."},
}

var seedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://cards-marketplace.local/cards"))

// CardID returns the stable id the seeded catalog uses for name
func CardID(name string) string {
	return uuid.NewSHA1(seedNamespace, []byte(name)).String()
}

// SeedCatalog loads the built-in card catalog. It is idempotent.
func SeedCatalog(store *Store) int {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range seedCards {
		at := created.Add(time.Duration(i) * time.Hour)
		store.addCatalogCard(domain.Card{
			ID:          CardID(c.name),
			Name:        c.name,
			Description: c.description,
			ImageURL:    fmt.Sprintf("https://images.cards-marketplace.local/%s.png", CardID(c.name)),
			CreatedAt:   &at,
		})
	}
	return len(seedCards)
}

// SeedDemo creates a demo account owning a few cards with one open trade, so
// the client has something to show against a fresh sandbox.
func SeedDemo(ctx context.Context, svc *Service, email, password string) (*domain.User, error) {
	user, err := svc.Register(ctx, domain.RegisterRequest{Name: "Demo Duelist", Email: email, Password: password})
	if errors.Is(err, domain.ErrEmailExists) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}

	owned := []string{CardID("Dark Magician"), CardID("Kuriboh"), CardID("Celtic Guardian")}
	if err := svc.AddCards(ctx, user.ID, owned); err != nil {
		return nil, fmt.Errorf("failed to give demo cards: %w", err)
	}

	_, err = svc.CreateTrade(ctx, user.ID, domain.CreateTradeRequest{Cards: []domain.TradeCardInput{
		{CardID: CardID("Kuriboh"), Type: domain.Offering},
		{CardID: CardID("Blue-Eyes White Dragon"), Type: domain.Receiving},
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to create demo trade: %w", err)
	}
	return user, nil
}
