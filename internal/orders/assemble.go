package orders

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/angelmondragon/tableserve-backend/internal/cart"
)

// AssembleLines maps every cart line to an order request stamped with the session context.
func AssembleLines(c cart.Cart, sc SessionContext) []OrderLineRequest {
	out := make([]OrderLineRequest, 0, len(c.Lines))
	for _, line := range c.Lines {
		out = append(out, OrderLineRequest{
			SessionID:      sc.SessionID,
			ItemID:         line.ID,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			Total:          line.Total(),
			Customisations: line.Customisations,
			AdditionalNote: line.AdditionalNotes,
			TableNumber:    sc.TableNumber,
			RestaurantID:   sc.RestaurantID,
		})
	}
	return out
}

// DeriveIdempotencyKey fingerprints a submission. Retrying an unchanged draft
// yields the same key; a cleared or edited cart yields a new one.
func DeriveIdempotencyKey(c cart.Cart, lines []OrderLineRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s", c.Scope.Key(), c.DraftID)
	for _, line := range lines {
		fmt.Fprintf(&b, "|%s:%d:%d:%s", line.ItemID, line.TableNumber, line.Quantity, line.UnitPrice.String())
		for _, rule := range line.Customisations {
			fmt.Fprintf(&b, ";%s", rule.RuleName)
			for _, opt := range rule.SelectedOptions {
				fmt.Fprintf(&b, ",%s*%d", opt.OptionName, opt.Quantity)
			}
		}
		if line.AdditionalNote != nil {
			fmt.Fprintf(&b, "#%s", *line.AdditionalNote)
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return "submit:" + hex.EncodeToString(sum[:])
}
