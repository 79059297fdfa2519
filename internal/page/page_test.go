package page

import (
	"reflect"
	"testing"
)

func TestVersionIDs(t *testing.T) {
	var nilCtx *MainContext
	if ids := nilCtx.VersionIDs(); ids != nil {
		t.Errorf("nil context VersionIDs = %v, want nil", ids)
	}

	mc := &MainContext{
		CurrentVersion: "free-pro-team@latest",
		AllVersions: map[string]Version{
			"free-pro-team@latest":    {Version: "free-pro-team@latest"},
			"enterprise-cloud@latest": {Version: "enterprise-cloud@latest"},
		},
	}
	want := []string{"enterprise-cloud@latest", "free-pro-team@latest"}
	if got := mc.VersionIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("VersionIDs() = %v, want %v", got, want)
	}
}
