// Package markup is the template engine behind the renderer: it parses XML
// templates into element trees, propagates data contexts through them,
// measures and arranges elements, and draws the laid-out tree.
//
// # Template Format
//
// A template is an XML document whose root is a visual element:
//
//	<Border Background="#FFFFFF" BorderBrush="Black" BorderThickness="2" Padding="8">
//	  <StackPanel>
//	    <TextBlock Text="{Binding Name}" FontSize="24" FontWeight="Bold"/>
//	    <TextBlock Text="{Binding Price, StringFormat='%.2f EUR'}"/>
//	  </StackPanel>
//	</Border>
//
// Supported elements are StackPanel, Border, TextBlock, Rectangle, Ellipse
// and Image. ResourceDictionary is accepted by the parser but is not visual
// and cannot be rendered. XML namespaces are ignored, so templates written
// with xmlns declarations load unchanged.
//
// # Data Binding
//
// Any attribute except Name may be a binding expression:
//
//	{Binding}                       the data context itself
//	{Binding Customer.Address.City} a property path
//	{Binding Path=Lines[0].Total, StringFormat='%.2f', FallbackValue=n/a}
//
// Paths walk map keys, exported struct fields (by field name or json tag),
// pointers, interfaces and slice or array indices. An element's data
// context is its own value when set, otherwise its parent's. Setting the
// DataContext attribute to a binding rebinds an element relative to its
// parent's context. A path that does not resolve, or a bound value that
// cannot be converted to the attribute's type, yields FallbackValue when
// given and the attribute's default otherwise.
//
// A value starting with "{}" is taken literally with the prefix removed.
//
// # Layout
//
// Elements implement visual.Node. Sizes are device-independent units.
// Width and Height fix an element's size; Margin surrounds it;
// HorizontalAlignment and VerticalAlignment place it inside the slot its
// parent gives it. Visibility="Collapsed" removes an element from layout.
//
// # Drawing
//
// Rasterizer draws a laid-out tree with fogleman/gg at a given scale. Text
// uses the Go font family. Content with negative margins may extend past
// the root's bounds and is clipped by the target surface.
package markup
