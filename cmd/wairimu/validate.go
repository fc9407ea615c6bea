package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/texture"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/tour"
)

var checkImages bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the tour file for content problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := tour.Load(cfg.Tour.File)
		if err != nil {
			return err
		}
		fmt.Printf("Tour: %s (%d scenes)\n", cfg.Tour.File, len(t.Scenes))

		errs := []error{t.Strict()}
		if checkImages {
			errs = append(errs, missingImages(t))
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

// missingImages reports local panorama references that resolve to no file.
func missingImages(t *tour.Tour) error {
	idx := texture.BuildIndex(cfg.Tour.ImageDir)
	var errs []error
	for _, s := range t.Scenes {
		if strings.HasPrefix(s.ImageURL, "http://") || strings.HasPrefix(s.ImageURL, "https://") {
			continue
		}
		if _, ok := idx.ResolvePath(s.ImageURL); !ok {
			errs = append(errs, fmt.Errorf("scene %q: image %s not found in %s", s.ID, s.ImageURL, cfg.Tour.ImageDir))
		}
	}
	return errors.Join(errs...)
}
