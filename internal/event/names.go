package event

// Event names form a closed vocabulary. Payload types are declared next to
// the component that owns them (lot, basket, order packages); every name
// below maps to exactly one payload type, and handlers subscribe through
// On[T] so the pairing is checked at the subscription site.
const (
	// Catalog lifecycle.
	CatalogLoading = "catalog:loading" // no payload
	CatalogLoaded  = "catalog:loaded"  // []lot.Lot
	CatalogError   = "catalog:error"   // error

	// Lot auction lifecycle and lot modal UI.
	LotBuy     = "lot:buy"     // basket.Item snapshot
	LotDetails = "lot:details" // lot.DetailsRequest
	LotBid     = "lot:bid"     // lot.BidRequest (UI) / lot.BidAccepted (model)
	LotStatus  = "lot:status"  // lot.StatusChange
	LotClose   = "lot:close"   // no payload
	LotError   = "lot:error"   // error

	// Basket lifecycle and basket modal UI.
	BasketChanged   = "basket:changed"    // basket.Snapshot
	BasketClick     = "basket:click"      // no payload
	BasketSwitchTab = "basket:switch-tab" // basket.TabChange
	BasketCheckout  = "basket:checkout"   // no payload
	BasketClose     = "basket:close"      // no payload

	// Checkout.
	OrderSubmit  = "order:submit"  // order.Form
	OrderSuccess = "order:success" // order.Confirmation
	OrderError   = "order:error"   // error

	// Application-wide reset (close any open modal).
	AppReset = "app:reset" // no payload
)
