package composer_test

import (
	"fmt"

	"github.com/matzehuels/pkgscan/pkg/packages/composer"
)

func ExampleResolveRepoURL() {
	for _, raw := range []string{
		"git@github.com:balderdashy/waterline-criteria.git",
		"github:foo/bar",
		"expressjs/serve-static",
		"gist:11081aaa281",
	} {
		fmt.Println(composer.ResolveRepoURL(raw))
	}
	// Output:
	// https://github.com/balderdashy/waterline-criteria.git
	// https://github.com/foo/bar
	// https://github.com/expressjs/serve-static
	// gist:11081aaa281
}

func ExampleHandler_RecognizeBytes() {
	h := composer.New(nil)
	pkg, err := h.RecognizeBytes("app/composer.json", []byte(`{
		"name": "acme/widgets",
		"description": "Widgets for everyone",
		"version": "1.2.0",
		"license": "MIT",
		"require": {"psr/log": "^3.0"}
	}`))
	if err != nil {
		panic(err)
	}
	fmt.Println(pkg.Name, pkg.Version, pkg.AssertedLicenses[0].License)
	fmt.Println(pkg.PackageURL())
	// Output:
	// acme/widgets 1.2.0 MIT
	// pkg:composer/acme/widgets@1.2.0
}
