package composer

import (
	"github.com/matzehuels/pkgscan/pkg/ordered"
	"github.com/matzehuels/pkgscan/pkg/packages"
)

// mapSupport records support channels
// (https://getcomposer.org/doc/04-schema.md#support). SupportContacts always
// gets one entry, nil when the object has no email.
func mapSupport(v any, pkg *packages.Package) error {
	support, ok := v.(*ordered.Map)
	if !ok {
		return nil
	}
	var email *string
	if s, ok := support.String("email"); ok {
		email = &s
	}
	pkg.SupportContacts = []*string{email}
	pkg.BugTrackingURL, _ = support.String("issues")
	pkg.CodeViewURL, _ = support.String("source")
	return nil
}
