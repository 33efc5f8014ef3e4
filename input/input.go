// Copyright (c) 2023, The Mono Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package input loads image files and converts them into the batched
// greyscale tensors the filter bank consumes.
package input

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/anthonynsimon/bild/transform"
	"github.com/emer/etable/etensor"
	"github.com/emer/vision/vfilter"
)

// Open loads an image from a png or jpeg file.
func Open(fname string) (image.Image, error) {
	file, err := os.Open(fname)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	return img, nil
}

// ToTensor converts img to a single greyscale channel shaped [rows][cols],
// resizing when the source size differs.
func ToTensor(img image.Image, rows, cols int, tsr *etensor.Float32) {
	isz := img.Bounds().Size()
	if isz.X != cols || isz.Y != rows {
		img = transform.Resize(img, cols, rows, transform.Linear)
	}
	vfilter.RGBToGrey(img, tsr, 0, false)
}

// Batch stacks same-sized single-channel image tensors into a
// [batch][1][rows][cols] tensor for filtering.
func Batch(imgs []*etensor.Float32, out *etensor.Float32) error {
	if len(imgs) == 0 {
		err := errors.New("input: Batch requires at least one image")
		log.Println(err)
		return err
	}
	rows, cols := imgs[0].Dim(0), imgs[0].Dim(1)
	out.SetShape([]int{len(imgs), 1, rows, cols}, nil, []string{"Batch", "Chan", "Y", "X"})
	n := rows * cols
	for i, im := range imgs {
		if im.Dim(0) != rows || im.Dim(1) != cols {
			err := fmt.Errorf("input: image %d is %dx%d, want %dx%d", i, im.Dim(0), im.Dim(1), rows, cols)
			log.Println(err)
			return err
		}
		copy(out.Values[i*n:(i+1)*n], im.Values)
	}
	return nil
}
