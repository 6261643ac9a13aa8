/*
Package carver is a content aware image resize library, which retargets images to a new
width and height by removing or inserting the seams of lowest importance, instead of
scaling the whole image uniformly.

The library works on real valued, multi-channel images and is meant to be used as a
preprocessing stage: given a batch of images it returns a batch of images of the target
size. Every operation is deterministic and returns a new image, the inputs are never modified.

The resize is built from four layers, each of them usable on its own:

	energy, err := carver.BuildEnergy(img)                // per pixel importance
	seam, err := carver.FindSeam(energy, carver.Vertical) // lowest energy path
	img, err = carver.RemoveSeam(img, seam)               // one pixel narrower

The Carver repeats these steps until the target size is reached:

	c, err := carver.New(carver.Config{OutHeight: 224, OutWidth: 224})
	if err != nil {
		log.Fatal(err)
	}
	out, err := c.CarveBatch(ctx, images, c.Config().Target())

The package also provides a command line interface. To check the supported flags type:

	$ carver --help
*/
package carver
