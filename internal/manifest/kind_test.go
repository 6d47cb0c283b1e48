package manifest

import (
	"reflect"
	"testing"
)

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []Kind
		wantErr bool
	}{
		{"all", []string{"sound", "image", "video"}, AllKinds, false},
		{"reordered", []string{"video", "sound"}, []Kind{Sound, Video}, false},
		{"duplicates", []string{"image", "IMAGE", " image "}, []Kind{Image}, false},
		{"unknown", []string{"sound", "audio"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKinds(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKinds() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseKinds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssets(t *testing.T) {
	records := []Record{
		{ID: "1", Video: "v1.mp4", Sound: "s1.wav"},
		{ID: "2"},
		{ID: "3", Image: "i3.png"},
	}

	got := Assets(records, []Kind{Video, Image, Sound})
	want := []Asset{
		{Record: 0, Kind: Sound, Path: "s1.wav"},
		{Record: 0, Kind: Video, Path: "v1.mp4"},
		{Record: 2, Kind: Image, Path: "i3.png"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assets() = %+v, want %+v", got, want)
	}

	if n := CountAssets(records, AllKinds); n != 3 {
		t.Errorf("CountAssets(all) = %d, want 3", n)
	}
	if n := CountAssets(records, []Kind{Image}); n != 1 {
		t.Errorf("CountAssets(image) = %d, want 1", n)
	}
	if n := len(Assets(records, []Kind{Image})); n != 1 {
		t.Errorf("len(Assets(image)) = %d, want 1", n)
	}
}
