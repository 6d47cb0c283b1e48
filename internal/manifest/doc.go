// Package manifest loads the vessel dataset manifest.
//
// The manifest is a JSON array of records. Each record carries scalar
// metadata (id, category, subcategory, speed, length, pressure, time) and up
// to three server-relative asset paths (sound, image, video).
//
// # Usage
//
//	records, err := manifest.Load("vessels_hear_my_ship.json")
//	if err != nil {
//	    return err
//	}
//
//	for _, a := range manifest.Assets(records, manifest.AllKinds) {
//	    fmt.Println(a.Kind, a.Path)
//	}
//
// # Paths
//
// Asset paths may use Windows separators or carry a leading slash.
// [NormalizePath] turns them into forward-slash relative paths.
package manifest
