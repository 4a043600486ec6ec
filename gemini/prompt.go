package gemini

import "fmt"

// CompositePrompt builds the editing instruction for the composite call.
// The garment description is substituted everywhere the garment is
// referenced; Image 1 is the garment photo, Image 2 the subject photo.
func CompositePrompt(garment string) string {
	return fmt.Sprintf(`Replace the %[1]s worn by the subject in Image 2 with the exact %[1]s from Image 1, ensuring a realistic and seamless integration. The face and background of Image 2 MUST remain completely unaltered.

I. Garment Extraction and Preservation (Image 1):

Precisely isolate the %[1]s in Image 1, excluding all other elements (background, subject's body, especially the face).
Maintain the exact color, texture, shape, dimensions, patterns, logos, seams, and all other details of the %[1]s. Include all attachments like pockets, buttons, and zippers.

II. Integration into Image 2:

Completely replace the existing garment in Image 2 with the extracted %[1]s. Do not combine or blend any elements of the original garment in Image 2.
Adjust the scale, perspective, and angle of the extracted %[1]s to perfectly match the subject's pose in Image 2, ensuring it drapes and fits naturally.
Realistically adapt the lighting, shadows, and reflections on the inserted %[1]s to match the light source in Image 2, creating a three-dimensional appearance and natural contact shadows.

III. Image 2 Preservation (Non-Negotiable):

The subject's face in Image 2 must remain 100%% identical to the original.
All other elements of the subject (hair, accessories, other clothing) and the entire background of Image 2 must remain unchanged.
The editing must be strictly limited to the area of the replaced %[1]s, without any spillover or alterations to surrounding areas.

Negative Constraints:

Do not combine or fuse any features of the original garment in Image 2 with the %[1]s from Image 1.
Absolutely no modifications to the subject's face, hair, or expression are allowed.
Do not alter any accessories, other clothing, or background elements in Image 2.
Do not add any new shadows, reflections, or effects that are not directly a result of the inserted %[1]s and its interaction with the existing lighting.
Avoid any blending or merging that compromises the natural appearance and volume of the inserted %[1]s.

The expected output is Image 2 with the new %[1]s integrated realistically and naturally, keeping the face and background unchanged. The result should be an image that looks authentic and professional, as if the %[1]s had always been in the original picture.`, garment)
}
